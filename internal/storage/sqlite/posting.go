package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
	"github.com/honeycarbs/skillgraph/internal/repository"
	pkgsqlite "github.com/honeycarbs/skillgraph/pkg/sqlite"
)

var (
	_ repository.PostingRepository = (*PostingRepository)(nil)
	_ repository.PostingWriter     = (*PostingRepository)(nil)
)

// PostingRepository reads the jobs/skills corpus tables
type PostingRepository struct {
	client *pkgsqlite.Client
}

// NewPostingRepository creates a PostingRepository with a SQLite client
func NewPostingRepository(client *pkgsqlite.Client) *PostingRepository {
	return &PostingRepository{client: client}
}

const (
	selectJobsQuery = `
		SELECT job_id, title, company, location, remote, salary_avg
		FROM jobs
		WHERE ? IS NULL OR (salary_avg IS NOT NULL AND salary_avg <= ?)
		ORDER BY rowid`

	selectSkillsQuery = `
		SELECT job_id, name, required
		FROM skills
		ORDER BY rowid`
)

// LoadPostings returns jobs in insertion order. Optional skills are always
// listed in Posting.Optional and join Skills unless the filter is RequiredOnly.
// Jobs left without any skill after filtering are not part of the corpus.
func (r *PostingRepository) LoadPostings(ctx context.Context, filter domain.PostingFilter) ([]domain.Posting, error) {
	db := r.client.DB()

	var maxSalary any
	if filter.MaxSalary != nil {
		maxSalary = *filter.MaxSalary
	}

	jobs, err := db.QueryContext(ctx, selectJobsQuery, maxSalary, maxSalary)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query jobs: %w", err)
	}
	defer jobs.Close()

	var postings []domain.Posting
	byID := make(map[string]int)
	for jobs.Next() {
		p, err := scanPosting(jobs)
		if err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan job: %w", err)
		}
		byID[p.ID] = len(postings)
		postings = append(postings, p)
	}
	if err := jobs.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to read jobs: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectSkillsQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			jobID, name string
			required    bool
		)
		if err := rows.Scan(&jobID, &name, &required); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan skill: %w", err)
		}
		i, ok := byID[jobID]
		if !ok {
			continue
		}
		if !required {
			postings[i].Optional = append(postings[i].Optional, name)
		}
		if required || !filter.RequiredOnly {
			postings[i].Skills = append(postings[i].Skills, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to read skills: %w", err)
	}

	out := postings[:0]
	for _, p := range postings {
		if len(p.Skills) > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func scanPosting(rows *sql.Rows) (domain.Posting, error) {
	var (
		p                        domain.Posting
		title, company, location sql.NullString
		remote                   sql.NullInt64
		salary                   sql.NullFloat64
	)
	if err := rows.Scan(&p.ID, &title, &company, &location, &remote, &salary); err != nil {
		return domain.Posting{}, err
	}

	p.Title = title.String
	p.Company = company.String
	p.Location = location.String
	p.Remote = remote.Int64 != 0
	if salary.Valid {
		v := salary.Float64
		p.SalaryAvg = &v
	}
	return p, nil
}

// UpsertPostings replaces postings and their skills in one transaction. Skills
// are written in canonical form, flagged optional when listed in Optional;
// postings without an ID get a fresh UUID.
func (r *PostingRepository) UpsertPostings(ctx context.Context, postings []domain.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	tx, err := r.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range postings {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}

		var salary any
		if p.SalaryAvg != nil {
			salary = *p.SalaryAvg
		}
		remote := 0
		if p.Remote {
			remote = 1
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO jobs (job_id, title, company, location, remote, salary_avg)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(job_id) DO UPDATE SET
				title = excluded.title,
				company = excluded.company,
				location = excluded.location,
				remote = excluded.remote,
				salary_avg = excluded.salary_avg`,
			id, p.Title, p.Company, p.Location, remote, salary,
		); err != nil {
			return fmt.Errorf("sqlite: failed to upsert job %q: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM skills WHERE job_id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: failed to clear skills of %q: %w", id, err)
		}
		required, optional := skills.Partition(p.Skills, p.Optional)
		for _, s := range required {
			if err := insertSkill(ctx, tx, id, s, true); err != nil {
				return err
			}
		}
		for _, s := range optional {
			if err := insertSkill(ctx, tx, id, s, false); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: failed to commit postings: %w", err)
	}
	return nil
}

func insertSkill(ctx context.Context, tx *sql.Tx, jobID, name string, required bool) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO skills (job_id, name, required) VALUES (?, ?, ?)`, jobID, name, required,
	); err != nil {
		return fmt.Errorf("sqlite: failed to insert skill %q: %w", name, err)
	}
	return nil
}
