package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/jackc/pgx/v5"
)

const contactCols = `id, name, email, phone, serial_number, cuid, ticket_number, status, location, notes, interview_count, created_at, last_contact`

func (r *Repository) scanContact(row interface{ Scan(...any) error }) (*model.Contact, error) {
	var (
		c      model.Contact
		status string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.SerialNumber, &c.CUID, &c.TicketNumber,
		&status, &c.Location, &c.Notes, &c.InterviewCount, &c.CreatedAt, &c.LastContact); err != nil {
		return nil, err
	}
	c.Status = model.ContactStatus(status)
	phone, err := r.openPhone(c.Phone)
	if err != nil {
		return nil, fmt.Errorf("contact %d phone: %w", c.ID, err)
	}
	c.Phone = phone
	return &c, nil
}

func (r *Repository) sealPhone(phone string) (string, error) {
	if r.crypto == nil || phone == "" {
		return phone, nil
	}
	return r.crypto.Encrypt(phone)
}

func (r *Repository) openPhone(stored string) (string, error) {
	if r.crypto == nil || stored == "" {
		return stored, nil
	}
	return r.crypto.Decrypt(stored)
}

func (r *Repository) ListContacts(ctx context.Context) ([]model.Contact, error) {
	q := `SELECT ` + contactCols + ` FROM contacts ORDER BY id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var out []model.Contact
	for rows.Next() {
		c, err := r.scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}

func (r *Repository) GetContact(ctx context.Context, id int64) (*model.Contact, error) {
	q := `SELECT ` + contactCols + ` FROM contacts WHERE id = $1`
	c, err := r.scanContact(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "contact")
	}
	return c, nil
}

// CreateContact inserts req, keeping its id when one is given.
func (r *Repository) CreateContact(ctx context.Context, req model.CreateContactReq) (*model.Contact, error) {
	phone, err := r.sealPhone(req.Phone)
	if err != nil {
		return nil, fmt.Errorf("seal phone: %w", err)
	}
	status := string(model.NormalizeContactStatus(req.Status))

	var row pgx.Row
	if req.ID > 0 {
		q := `
INSERT INTO contacts (id, name, email, phone, serial_number, cuid, ticket_number, status, location, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + contactCols
		row = r.db.QueryRow(ctx, q, req.ID, req.Name, req.Email, phone, req.SerialNumber, req.CUID,
			req.TicketNumber, status, req.Location, req.Notes)
	} else {
		q := `
INSERT INTO contacts (name, email, phone, serial_number, cuid, ticket_number, status, location, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + contactCols
		row = r.db.QueryRow(ctx, q, req.Name, req.Email, phone, req.SerialNumber, req.CUID,
			req.TicketNumber, status, req.Location, req.Notes)
	}

	c, err := r.scanContact(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("contact %d: %w", req.ID, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	if req.ID > 0 {
		if err := syncSequence(ctx, r.db, "contacts"); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// PatchContact updates only the fields set on patch.
func (r *Repository) PatchContact(ctx context.Context, id int64, patch model.PatchContactReq) (*model.Contact, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		phone, err := r.sealPhone(*patch.Phone)
		if err != nil {
			return nil, fmt.Errorf("seal phone: %w", err)
		}
		add("phone", phone)
	}
	if patch.SerialNumber != nil {
		add("serial_number", *patch.SerialNumber)
	}
	if patch.CUID != nil {
		add("cuid", *patch.CUID)
	}
	if patch.TicketNumber != nil {
		add("ticket_number", *patch.TicketNumber)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.Status != nil {
		add("status", string(model.NormalizeContactStatus(*patch.Status)))
	}
	if len(sets) == 0 {
		return r.GetContact(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE contacts SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), contactCols)
	c, err := r.scanContact(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, notFound(err, "contact")
	}
	return c, nil
}

func (r *Repository) DeleteContact(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact %d: %w", id, ErrNotFound)
	}
	return nil
}
