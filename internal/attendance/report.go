package attendance

import (
	"context"
	"strings"
)

// Every report recomputes from the current log state; nothing is cached.

// SessionStat counts responses for one session. Sessions without submissions
// appear with a zero count.
type SessionStat struct {
	SessionID     int64  `json:"session_id" db:"session_id"`
	Title         string `json:"title" db:"title"`
	StartsAt      string `json:"starts_at" db:"starts_at"`
	EndsAt        string `json:"ends_at" db:"ends_at"`
	ResponseCount int    `json:"response_count" db:"response_count"`
}

// SessionStats reports per-session response counts. The date filter applies
// to the session's start time, not submission time.
func (s *Service) SessionStats(ctx context.Context, school, from, to string) ([]SessionStat, error) {
	filter := ""
	args := []interface{}{school}
	if from != "" {
		filter += " AND datetime(q.starts_at) >= datetime(?)"
		args = append(args, from)
	}
	if to != "" {
		filter += " AND datetime(q.starts_at) <= datetime(?)"
		args = append(args, to)
	}

	stats := []SessionStat{}
	err := s.db.SelectContext(ctx, &stats, `
		SELECT q.id AS session_id,
		       q.title,
		       q.starts_at,
		       q.ends_at,
		       COUNT(r.id) AS response_count
		FROM attendance_sessions q
		LEFT JOIN attendance_submissions r ON r.session_id = q.id
		WHERE q.school = ?`+filter+`
		GROUP BY q.id, q.title, q.starts_at, q.ends_at
		ORDER BY q.starts_at DESC, session_id DESC
	`, args...)
	return stats, err
}

// DaySummary groups one person's marks on one calendar date.
type DaySummary struct {
	Date       string `json:"date" db:"day"`
	PersonName string `json:"person_name" db:"person_name"`
	Email      string `json:"email" db:"email"`
	EntryCount int    `json:"entry_count" db:"entries"`
	ExitCount  int    `json:"exit_count" db:"exits"`
	Total      int    `json:"total" db:"total"`
}

// DailySummary reports entry/exit counts per calendar date and person. Date
// bounds are truncated to calendar dates before comparing.
func (s *Service) DailySummary(ctx context.Context, school, from, to string) ([]DaySummary, error) {
	filter := ""
	args := []interface{}{school}
	if from != "" {
		filter += " AND date(stamped_at) >= date(?)"
		args = append(args, from)
	}
	if to != "" {
		filter += " AND date(stamped_at) <= date(?)"
		args = append(args, to)
	}

	summary := []DaySummary{}
	err := s.db.SelectContext(ctx, &summary, `
		SELECT date(stamped_at) AS day,
		       person_name,
		       IFNULL(email, '') AS email,
		       SUM(CASE WHEN kind = 'entrada' THEN 1 ELSE 0 END) AS entries,
		       SUM(CASE WHEN kind = 'salida' THEN 1 ELSE 0 END) AS exits,
		       COUNT(*) AS total
		FROM attendance_marks
		WHERE school = ?`+filter+`
		GROUP BY day, person_name, email
		ORDER BY day DESC, person_name
	`, args...)
	return summary, err
}

// PersonHit is one person found by SearchPeople.
type PersonHit struct {
	PersonName string `json:"person_name" db:"person_name"`
	Email      string `json:"email" db:"email"`
	TotalMarks int    `json:"total_marks" db:"total"`
}

// SearchPeople finds people with marks in a school, matching name or email
// case-insensitively when a query is given. Capped at 100 rows.
func (s *Service) SearchPeople(ctx context.Context, school, query string) ([]PersonHit, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	filter := ""
	args := []interface{}{school}
	if q != "" {
		filter = " AND (LOWER(person_name) LIKE ? OR LOWER(email) LIKE ?)"
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}

	hits := []PersonHit{}
	err := s.db.SelectContext(ctx, &hits, `
		SELECT person_name,
		       IFNULL(email, '') AS email,
		       COUNT(*) AS total
		FROM attendance_marks
		WHERE school = ?`+filter+`
		GROUP BY person_name, email
		ORDER BY person_name
		LIMIT 100
	`, args...)
	return hits, err
}

// PersonDetail lists one person's marks oldest first, so the view reads
// chronologically. All filters are optional and AND-combined.
func (s *Service) PersonDetail(ctx context.Context, school, name, email, from, to string) ([]Mark, error) {
	query := `
		SELECT id, school, person_id, person_name, email, kind, stamped_at
		FROM attendance_marks
		WHERE school = ?`
	args := []interface{}{school}
	if name != "" {
		query += " AND person_name = ?"
		args = append(args, name)
	}
	if email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}
	if from != "" {
		query += " AND date(stamped_at) >= date(?)"
		args = append(args, from)
	}
	if to != "" {
		query += " AND date(stamped_at) <= date(?)"
		args = append(args, to)
	}
	query += " ORDER BY stamped_at, id"

	marks := []Mark{}
	err := s.db.SelectContext(ctx, &marks, query, args...)
	return marks, err
}

// MatrixDate is one calendar date inside a person's matrix row.
type MatrixDate struct {
	Date    string `json:"date"`
	Entries int    `json:"entries"`
	Exits   int    `json:"exits"`
}

// MatrixRow is the per-person pivot with running totals.
type MatrixRow struct {
	PersonName   string       `json:"person_name"`
	Email        string       `json:"email"`
	TotalEntries int          `json:"total_entries"`
	TotalExits   int          `json:"total_exits"`
	Dates        []MatrixDate `json:"dates"`
}

// EntryExitMatrix groups marks by person and date in SQL, then regroups by
// person into a nested date breakdown. The SQL ordering (person asc, date
// asc) is preserved through the regroup, so each person's dates stay sorted.
func (s *Service) EntryExitMatrix(ctx context.Context, school, from, to string) ([]MatrixRow, error) {
	filter := ""
	args := []interface{}{school}
	if from != "" {
		filter += " AND date(stamped_at) >= date(?)"
		args = append(args, from)
	}
	if to != "" {
		filter += " AND date(stamped_at) <= date(?)"
		args = append(args, to)
	}

	type pivotRow struct {
		PersonName string `db:"person_name"`
		Email      string `db:"email"`
		Day        string `db:"day"`
		Entries    int    `db:"entries"`
		Exits      int    `db:"exits"`
	}
	var rows []pivotRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT person_name,
		       IFNULL(email, '') AS email,
		       date(stamped_at) AS day,
		       SUM(CASE WHEN kind = 'entrada' THEN 1 ELSE 0 END) AS entries,
		       SUM(CASE WHEN kind = 'salida' THEN 1 ELSE 0 END) AS exits
		FROM attendance_marks
		WHERE school = ?`+filter+`
		GROUP BY person_name, email, date(stamped_at)
		ORDER BY person_name, day
	`, args...)
	if err != nil {
		return nil, err
	}

	type personKey struct {
		name, email string
	}
	index := map[personKey]int{}
	matrix := []MatrixRow{}
	for _, r := range rows {
		key := personKey{r.PersonName, r.Email}
		i, ok := index[key]
		if !ok {
			matrix = append(matrix, MatrixRow{PersonName: r.PersonName, Email: r.Email})
			i = len(matrix) - 1
			index[key] = i
		}
		matrix[i].TotalEntries += r.Entries
		matrix[i].TotalExits += r.Exits
		matrix[i].Dates = append(matrix[i].Dates, MatrixDate{Date: r.Day, Entries: r.Entries, Exits: r.Exits})
	}
	return matrix, nil
}
