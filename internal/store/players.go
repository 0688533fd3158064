package store

import (
	"context"
	"database/sql"
	"time"
)

type Player struct {
	ID            int64
	VPLID         string
	FullName      string
	Age           string
	Phone         string
	Level         string
	ContactName   string
	ContactPhone  string
	CurrentTeam   string
	PreviousTeam  string
	PlayingRole   string
	PlayingStyle  string
	Photo         string
	JerseyName    string
	JerseyNumber  string
	JerseySize    string
	Sleeves       string
	PaymentMethod string
	PaymentProof  string
	Status        string
	CreatedAt     time.Time
}

const playerColumns = `id, vpl_id, full_name, age, phone, level, contact_name,
contact_phone, current_team, previous_team, playing_role, playing_style, photo,
jersey_name, jersey_number, jersey_size, sleeves, payment_method, payment_proof,
status, created_at`

func scanPlayer(row interface{ Scan(...any) error }) (Player, error) {
	var p Player
	err := row.Scan(
		&p.ID, &p.VPLID, &p.FullName, &p.Age, &p.Phone, &p.Level,
		&p.ContactName, &p.ContactPhone, &p.CurrentTeam, &p.PreviousTeam,
		&p.PlayingRole, &p.PlayingStyle, &p.Photo,
		&p.JerseyName, &p.JerseyNumber, &p.JerseySize, &p.Sleeves,
		&p.PaymentMethod, &p.PaymentProof, &p.Status, &p.CreatedAt,
	)
	return p, err
}

type CreatePlayerParams struct {
	VPLID        string
	FullName     string
	Age          string
	Phone        string
	Level        string
	ContactName  string
	ContactPhone string
	CurrentTeam  string
	PreviousTeam string
	PlayingRole  string
	PlayingStyle string
	Photo        string
	JerseyName   string
	JerseyNumber string
	JerseySize   string
	Sleeves      string
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO players (
			vpl_id, full_name, age, phone, level, contact_name, contact_phone,
			current_team, previous_team, playing_role, playing_style, photo,
			jersey_name, jersey_number, jersey_size, sleeves
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.VPLID, arg.FullName, arg.Age, arg.Phone, arg.Level,
		arg.ContactName, arg.ContactPhone, arg.CurrentTeam, arg.PreviousTeam,
		arg.PlayingRole, arg.PlayingStyle, arg.Photo,
		arg.JerseyName, arg.JerseyNumber, arg.JerseySize, arg.Sleeves,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetPlayerByID(ctx context.Context, id int64) (Player, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	return scanPlayer(row)
}

func (q *Queries) CountPlayers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	return count, err
}

func (q *Queries) PlayerPhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM players WHERE phone = ?)`, phone).Scan(&exists)
	return exists, err
}

// ListVPLIDs returns every assigned display ID, for gap-fill assignment.
func (q *Queries) ListVPLIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT vpl_id FROM players`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListPlayers returns all players ordered by display ID. The zero-padded
// fixed-width format makes lexical order coincide with numeric order.
func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY vpl_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

type UpdatePlayerParams struct {
	ID           int64
	FullName     string
	Age          string
	Level        string
	ContactName  string
	ContactPhone string
	CurrentTeam  string
	PreviousTeam string
	PlayingRole  string
	PlayingStyle string
	JerseyName   string
	JerseyNumber string
	JerseySize   string
	Sleeves      string
	Status       string
}

func (q *Queries) UpdatePlayer(ctx context.Context, arg UpdatePlayerParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE players SET
			full_name = ?, age = ?, level = ?, contact_name = ?, contact_phone = ?,
			current_team = ?, previous_team = ?, playing_role = ?, playing_style = ?,
			jersey_name = ?, jersey_number = ?, jersey_size = ?, sleeves = ?, status = ?
		WHERE id = ?`,
		arg.FullName, arg.Age, arg.Level, arg.ContactName, arg.ContactPhone,
		arg.CurrentTeam, arg.PreviousTeam, arg.PlayingRole, arg.PlayingStyle,
		arg.JerseyName, arg.JerseyNumber, arg.JerseySize, arg.Sleeves, arg.Status,
		arg.ID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

type UpdatePlayerPaymentParams struct {
	ID            int64
	PaymentMethod string
	PaymentProof  string
	Status        string
}

func (q *Queries) UpdatePlayerPayment(ctx context.Context, arg UpdatePlayerPaymentParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE players SET payment_method = ?, payment_proof = ?, status = ?
		WHERE id = ?`,
		arg.PaymentMethod, arg.PaymentProof, arg.Status, arg.ID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (q *Queries) DeletePlayer(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
