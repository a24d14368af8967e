package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suryard0605/medtrack/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- UserRepository ---

func (p *PostgresStorage) SaveUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, token, email, name, age, dob, phone, medical_history) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET email = $3, name = $4, age = $5, dob = $6, phone = $7, medical_history = $8`,
		user.ID, user.Token, user.Email, user.Name, user.Age, user.DOB, user.Phone, user.MedicalHistory)
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, token, email, name, age, dob, phone, medical_history FROM users WHERE id = $1`, id)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.Email, &u.Name, &u.Age, &u.DOB, &u.Phone, &u.MedicalHistory); err != nil {
		p.logger.Errorf("user not found: %v", err)
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, token, email, name, age, dob, phone, medical_history FROM users WHERE token = $1`, token)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.Email, &u.Name, &u.Age, &u.DOB, &u.Phone, &u.MedicalHistory); err != nil {
		p.logger.Errorf("user not found: %v", err)
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) UpdateUser(ctx context.Context, user *internal.User) error {
	tag, err := p.pool.Exec(ctx, `UPDATE users SET email = $2, name = $3, age = $4, dob = $5, phone = $6, medical_history = $7 WHERE id = $1`,
		user.ID, user.Email, user.Name, user.Age, user.DOB, user.Phone, user.MedicalHistory)
	if err != nil {
		p.logger.Errorf("failed to update user: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: user %s not found", user.ID)
	}
	return nil
}

// --- MemberRepository ---

func (p *PostgresStorage) SaveMember(ctx context.Context, member *internal.Member) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO members (id, user_id, name, email, age, dob, phone, medical_history, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		member.ID, member.UserID, member.Name, member.Email, member.Age, member.DOB, member.Phone, member.MedicalHistory, member.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert member: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListMembers(ctx context.Context, userID string) ([]internal.Member, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, name, email, age, dob, phone, medical_history, created_at FROM members WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		p.logger.Errorf("failed to query members: %v", err)
		return nil, err
	}
	defer rows.Close()

	members := []internal.Member{}
	for rows.Next() {
		var m internal.Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Email, &m.Age, &m.DOB, &m.Phone, &m.MedicalHistory, &m.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan member: %v", err)
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (p *PostgresStorage) GetMember(ctx context.Context, id string) (*internal.Member, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, user_id, name, email, age, dob, phone, medical_history, created_at FROM members WHERE id = $1`, id)
	var m internal.Member
	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Email, &m.Age, &m.DOB, &m.Phone, &m.MedicalHistory, &m.CreatedAt); err != nil {
		p.logger.Errorf("member not found: %v", err)
		return nil, err
	}
	return &m, nil
}

func (p *PostgresStorage) UpdateMember(ctx context.Context, member *internal.Member) error {
	tag, err := p.pool.Exec(ctx, `UPDATE members SET name = $2, email = $3, age = $4, dob = $5, phone = $6, medical_history = $7 WHERE id = $1`,
		member.ID, member.Name, member.Email, member.Age, member.DOB, member.Phone, member.MedicalHistory)
	if err != nil {
		p.logger.Errorf("failed to update member: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: member %s not found", member.ID)
	}
	return nil
}

func (p *PostgresStorage) DeleteMember(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete member: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: member %s not found", id)
	}
	return nil
}

// --- MedicineRepository ---

const medicineColumns = `id, user_id, member_id, name, dosage, food_relation, times_per_day, duration_days, start_date, end_date, notes, reminder_times, created_at, updated_at`

func (p *PostgresStorage) SaveMedicine(ctx context.Context, med *internal.Medicine) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO medicines (`+medicineColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		med.ID, med.UserID, med.MemberID, med.Name, med.Dosage, med.FoodRelation, med.TimesPerDay, med.DurationDays, med.StartDate, med.EndDate, med.Notes, med.ReminderTimes, med.CreatedAt, med.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert medicine: %v", err)
		return err
	}
	return nil
}

func scanMedicines(rows pgx.Rows) ([]internal.Medicine, error) {
	meds := []internal.Medicine{}
	for rows.Next() {
		var m internal.Medicine
		if err := rows.Scan(&m.ID, &m.UserID, &m.MemberID, &m.Name, &m.Dosage, &m.FoodRelation, &m.TimesPerDay, &m.DurationDays, &m.StartDate, &m.EndDate, &m.Notes, &m.ReminderTimes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

func (p *PostgresStorage) ListMedicines(ctx context.Context, userID string, memberID *string) ([]internal.Medicine, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if memberID != nil {
		rows, err = p.pool.Query(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE user_id = $1 AND member_id = $2 ORDER BY created_at`, userID, *memberID)
	} else {
		rows, err = p.pool.Query(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE user_id = $1 ORDER BY created_at`, userID)
	}
	if err != nil {
		p.logger.Errorf("failed to query medicines: %v", err)
		return nil, err
	}
	defer rows.Close()
	meds, err := scanMedicines(rows)
	if err != nil {
		p.logger.Errorf("failed to scan medicines: %v", err)
	}
	return meds, err
}

func (p *PostgresStorage) ListAllMedicines(ctx context.Context) ([]internal.Medicine, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+medicineColumns+` FROM medicines ORDER BY created_at`)
	if err != nil {
		p.logger.Errorf("failed to query medicines: %v", err)
		return nil, err
	}
	defer rows.Close()
	meds, err := scanMedicines(rows)
	if err != nil {
		p.logger.Errorf("failed to scan medicines: %v", err)
	}
	return meds, err
}

func (p *PostgresStorage) GetMedicine(ctx context.Context, id string) (*internal.Medicine, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id)
	var m internal.Medicine
	if err := row.Scan(&m.ID, &m.UserID, &m.MemberID, &m.Name, &m.Dosage, &m.FoodRelation, &m.TimesPerDay, &m.DurationDays, &m.StartDate, &m.EndDate, &m.Notes, &m.ReminderTimes, &m.CreatedAt, &m.UpdatedAt); err != nil {
		p.logger.Errorf("medicine not found: %v", err)
		return nil, err
	}
	return &m, nil
}

func (p *PostgresStorage) UpdateMedicine(ctx context.Context, med *internal.Medicine) error {
	tag, err := p.pool.Exec(ctx, `UPDATE medicines SET name = $2, dosage = $3, food_relation = $4, times_per_day = $5, duration_days = $6, start_date = $7, end_date = $8, notes = $9, reminder_times = $10, updated_at = $11 WHERE id = $1`,
		med.ID, med.Name, med.Dosage, med.FoodRelation, med.TimesPerDay, med.DurationDays, med.StartDate, med.EndDate, med.Notes, med.ReminderTimes, med.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to update medicine: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: medicine %s not found", med.ID)
	}
	return nil
}

func (p *PostgresStorage) DeleteMedicine(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete medicine: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: medicine %s not found", id)
	}
	return nil
}

// --- DoseLogRepository ---

func (p *PostgresStorage) SaveDoseLog(ctx context.Context, log *internal.DoseLog) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO dose_logs (id, user_id, member_id, medicine_id, status, time) VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.UserID, log.MemberID, log.MedicineID, log.Status, log.Time)
	if err != nil {
		p.logger.Errorf("failed to insert dose log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListDoseLogs(ctx context.Context, filter DoseLogFilter) ([]internal.DoseLog, error) {
	query := `SELECT id, user_id, member_id, medicine_id, status, time FROM dose_logs WHERE 1=1`
	args := []interface{}{}
	n := 0
	arg := func(v interface{}) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}
	if filter.UserID != "" {
		query += ` AND user_id = ` + arg(filter.UserID)
	}
	if filter.MemberID != nil {
		query += ` AND member_id = ` + arg(*filter.MemberID)
	}
	if filter.MedicineID != "" {
		query += ` AND medicine_id = ` + arg(filter.MedicineID)
	}
	if !filter.From.IsZero() {
		query += ` AND time >= ` + arg(filter.From)
	}
	if !filter.To.IsZero() {
		query += ` AND time <= ` + arg(filter.To)
	}
	query += ` ORDER BY time DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query dose logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := []internal.DoseLog{}
	for rows.Next() {
		var l internal.DoseLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.MemberID, &l.MedicineID, &l.Status, &l.Time); err != nil {
			p.logger.Errorf("failed to scan dose log: %v", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- Compile-time assertions ---
var _ UserRepository = (*PostgresStorage)(nil)
var _ MemberRepository = (*PostgresStorage)(nil)
var _ MedicineRepository = (*PostgresStorage)(nil)
var _ DoseLogRepository = (*PostgresStorage)(nil)
