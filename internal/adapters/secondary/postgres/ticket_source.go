package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itdesk/extract-service/internal/core/domain"
	"github.com/itdesk/extract-service/internal/core/ports"
	"github.com/itdesk/extract-service/internal/core/utils"
)

// TicketSource is the secondary adapter that loads ticket snapshots from
// PostgreSQL.
type TicketSource struct {
	pool *pgxpool.Pool
}

var _ ports.TicketSource = (*TicketSource)(nil)

// NewTicketSource creates a new postgres ticket source.
func NewTicketSource(pool *pgxpool.Pool) *TicketSource {
	return &TicketSource{pool: pool}
}

// LoadTickets loads the newest tickets with their requester, assignee and
// project summaries resolved, newest first.
func (s *TicketSource) LoadTickets(ctx context.Context, limit int) ([]*domain.Ticket, error) {
	const query = `
SELECT
	t.id,
	t.title,
	t.status,
	t.priority,
	t.work_type,
	t.project_id,
	p.name AS project_name,
	t.requester_emp_no,
	ru.name, ru.title, ru.department,
	t.assignee_emp_no,
	au.name, au.title, au.department,
	t.created_at,
	t.updated_at,
	t.reopen_count
FROM tickets t
JOIN users ru ON t.requester_emp_no = ru.emp_no
LEFT JOIN users au ON t.assignee_emp_no = au.emp_no
LEFT JOIN projects p ON t.project_id = p.id
ORDER BY t.created_at DESC NULLS LAST, t.id DESC
LIMIT $1
`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0, limit)
	byID := make(map[int64]*domain.Ticket, limit)

	for rows.Next() {
		var (
			ticket         domain.Ticket
			workType       pgtype.Text
			projectID      pgtype.Int8
			projectName    pgtype.Text
			requesterName  pgtype.Text
			requesterTitle pgtype.Text
			requesterDept  pgtype.Text
			assigneeEmpNo  pgtype.Text
			assigneeName   pgtype.Text
			assigneeTitle  pgtype.Text
			assigneeDept   pgtype.Text
			createdAt      pgtype.Timestamptz
			updatedAt      pgtype.Timestamptz
		)

		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Status,
			&ticket.Priority,
			&workType,
			&projectID,
			&projectName,
			&ticket.RequesterEmpNo,
			&requesterName, &requesterTitle, &requesterDept,
			&assigneeEmpNo,
			&assigneeName, &assigneeTitle, &assigneeDept,
			&createdAt,
			&updatedAt,
			&ticket.ReopenCount,
		); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}

		if workType.Valid {
			wt := domain.WorkType(workType.String)
			ticket.WorkType = &wt
		}
		ticket.ProjectID = utils.FromInt8(projectID)
		ticket.ProjectName = utils.FromText(projectName)
		if requesterName.Valid {
			ticket.Requester = &domain.PersonSummary{
				Name:       requesterName.String,
				Title:      utils.TextOrEmpty(requesterTitle),
				Department: utils.TextOrEmpty(requesterDept),
			}
		}
		ticket.AssigneeEmpNo = utils.FromText(assigneeEmpNo)
		if assigneeName.Valid {
			ticket.Assignee = &domain.PersonSummary{
				Name:       assigneeName.String,
				Title:      utils.TextOrEmpty(assigneeTitle),
				Department: utils.TextOrEmpty(assigneeDept),
			}
		}
		ticket.CreatedAt = utils.FromTimestamptz(createdAt)
		ticket.UpdatedAt = utils.FromTimestamptz(updatedAt)

		tickets = append(tickets, &ticket)
		byID[ticket.ID] = &ticket
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tickets: %w", err)
	}

	if len(tickets) == 0 {
		return tickets, nil
	}

	ids := make([]int64, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}

	if err := s.loadCategoryLinks(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := s.loadAssignees(ctx, ids, byID); err != nil {
		return nil, err
	}

	return tickets, nil
}

// loadCategoryLinks attaches the ordered category id list of each ticket.
func (s *TicketSource) loadCategoryLinks(ctx context.Context, ids []int64, byID map[int64]*domain.Ticket) error {
	const query = `
SELECT ticket_id, category_id
FROM ticket_category_links
WHERE ticket_id = ANY($1)
ORDER BY ticket_id, position
`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query category links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ticketID, categoryID int64
		if err := rows.Scan(&ticketID, &categoryID); err != nil {
			return fmt.Errorf("scan category link: %w", err)
		}
		if t, ok := byID[ticketID]; ok {
			t.CategoryIDs = append(t.CategoryIDs, categoryID)
			if t.CategoryID == nil {
				first := categoryID
				t.CategoryID = &first
			}
		}
	}
	return rows.Err()
}

// loadAssignees attaches the ordered assignee summaries of each ticket.
func (s *TicketSource) loadAssignees(ctx context.Context, ids []int64, byID map[int64]*domain.Ticket) error {
	const query = `
SELECT ta.ticket_id, u.name, u.title, u.department
FROM ticket_assignees ta
JOIN users u ON ta.emp_no = u.emp_no
WHERE ta.ticket_id = ANY($1)
ORDER BY ta.ticket_id, ta.position
`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query ticket assignees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ticketID   int64
			name       string
			title      pgtype.Text
			department pgtype.Text
		)
		if err := rows.Scan(&ticketID, &name, &title, &department); err != nil {
			return fmt.Errorf("scan ticket assignee: %w", err)
		}
		if t, ok := byID[ticketID]; ok {
			t.Assignees = append(t.Assignees, domain.PersonSummary{
				Name:       name,
				Title:      utils.TextOrEmpty(title),
				Department: utils.TextOrEmpty(department),
			})
		}
	}
	return rows.Err()
}
