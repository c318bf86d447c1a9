package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	// ListBetween returns the messages exchanged by two users, oldest first.
	ListBetween(ctx context.Context, filter ConversationFilter) ([]*Message, int, error)
	// ListConversations returns one row per counterpart, most recent first.
	ListConversations(ctx context.Context, userID string, page, pageSize int) ([]*Conversation, int, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
}

var messageColumns = []string{
	"m.id", "m.sender_id", "COALESCE(s.display_name, s.email)",
	"m.recipient_id", "COALESCE(r.display_name, r.email)",
	"m.property_id", "m.content", "m.read_at", "m.created_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *pgxRepository) selectMessages(columns ...string) squirrel.SelectBuilder {
	return r.psql.Select(columns...).
		From("public.messages m").
		Join("public.users s ON m.sender_id = s.id").
		Join("public.users r ON m.recipient_id = r.id")
}

func scanMessage(row pgx.Row, extra ...any) (*Message, error) {
	var m Message
	dest := []any{
		&m.ID, &m.SenderID, &m.SenderName,
		&m.RecipientID, &m.RecipientName,
		&m.PropertyID, &m.Content, &m.ReadAt, &m.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *pgxRepository) Create(ctx context.Context, m *Message) error {
	query, args, err := r.psql.Insert("public.messages").
		Columns("sender_id", "recipient_id", "property_id", "content").
		Values(m.SenderID, m.RecipientID, m.PropertyID, m.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create message query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Message, error) {
	query, args, err := r.selectMessages(messageColumns...).
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get message query failed: %w", err)
	}

	m, err := scanMessage(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get message failed: %w", err)
	}
	return m, nil
}

func (r *pgxRepository) ListBetween(ctx context.Context, filter ConversationFilter) ([]*Message, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := r.selectMessages(append(messageColumns, "count(*) OVER() AS total_count")...).
		Where(squirrel.Or{
			squirrel.And{squirrel.Eq{"m.sender_id": filter.UserID}, squirrel.Eq{"m.recipient_id": filter.WithID}},
			squirrel.And{squirrel.Eq{"m.sender_id": filter.WithID}, squirrel.Eq{"m.recipient_id": filter.UserID}},
		}).
		OrderBy("m.created_at ASC", "m.id").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list messages query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages failed: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	var total int
	for rows.Next() {
		m, err := scanMessage(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan message failed: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate messages failed: %w", err)
	}
	return messages, total, nil
}

func (r *pgxRepository) ListConversations(ctx context.Context, userID string, page, pageSize int) ([]*Conversation, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	const query = `
		WITH mine AS (
			SELECT m.*,
				CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END AS counterpart_id
			FROM public.messages m
			WHERE m.sender_id = $1 OR m.recipient_id = $1
		), latest AS (
			SELECT DISTINCT ON (counterpart_id) *
			FROM mine
			ORDER BY counterpart_id, created_at DESC, id DESC
		)
		SELECT
			l.counterpart_id, COALESCE(c.display_name, c.email),
			l.id, l.sender_id, COALESCE(s.display_name, s.email),
			l.recipient_id, COALESCE(r.display_name, r.email),
			l.property_id, l.content, l.read_at, l.created_at,
			(SELECT COUNT(*) FROM mine x
				WHERE x.counterpart_id = l.counterpart_id AND x.recipient_id = $1 AND x.read_at IS NULL),
			count(*) OVER()
		FROM latest l
		JOIN public.users c ON c.id = l.counterpart_id
		JOIN public.users s ON s.id = l.sender_id
		JOIN public.users r ON r.id = l.recipient_id
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list conversations failed: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	var total int
	for rows.Next() {
		var conv Conversation
		m := &conv.LastMessage
		if err := rows.Scan(
			&conv.CounterpartID, &conv.CounterpartName,
			&m.ID, &m.SenderID, &m.SenderName,
			&m.RecipientID, &m.RecipientName,
			&m.PropertyID, &m.Content, &m.ReadAt, &m.CreatedAt,
			&conv.UnreadCount, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan conversation failed: %w", err)
		}
		conversations = append(conversations, &conv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate conversations failed: %w", err)
	}
	return conversations, total, nil
}

// MarkRead keeps the first read timestamp when called twice.
func (r *pgxRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	query, args, err := r.psql.Update("public.messages").
		Set("read_at", squirrel.Expr("COALESCE(read_at, ?)", at)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark message read failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
