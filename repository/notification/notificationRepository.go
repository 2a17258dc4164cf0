package notifrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/delak101/librarysystem/model"
)

type Repo interface {
	Insert(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notifID int64) (bool, error)

	UpsertDeviceToken(ctx context.Context, t *model.DeviceToken) error
	ActiveTokens(ctx context.Context, userID int64) ([]string, error)
	DeactivateToken(ctx context.Context, token string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, n *model.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, kind, title, body, payload, is_read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, created_at`,
		n.UserID, n.Kind, n.Title, n.Body, payload,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *repo) ListForUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, kind, title, body, payload, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body,
			&payload, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &n.Payload); err != nil {
				return nil, err
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repo) MarkRead(ctx context.Context, userID, notifID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1
		AND user_id = $2`,
		notifID, userID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// UpsertDeviceToken re-binds an existing token to its latest user, matching
// the behavior of a device changing accounts.
func (r *repo) UpsertDeviceToken(ctx context.Context, t *model.DeviceToken) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO user_device_tokens (user_id, token, device_type, is_active, last_updated)
		VALUES ($1, $2, $3, TRUE, NOW())
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
			device_type = EXCLUDED.device_type,
			is_active = TRUE,
			last_updated = NOW()
		RETURNING id, last_updated`,
		t.UserID, t.Token, t.DeviceType,
	).Scan(&t.ID, &t.LastUpdated)
}

func (r *repo) ActiveTokens(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT token
		FROM user_device_tokens
		WHERE user_id = $1
		AND is_active`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repo) DeactivateToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_device_tokens
		SET is_active = FALSE,
			last_updated = NOW()
		WHERE token = $1`,
		token)
	return err
}
