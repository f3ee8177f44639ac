package neo4j

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/skills"
	"github.com/honeycarbs/skillgraph/internal/repository"
	pkgneo4j "github.com/honeycarbs/skillgraph/pkg/neo4j"
)

var (
	_ repository.PostingRepository = (*PostingRepository)(nil)
	_ repository.PostingWriter     = (*PostingRepository)(nil)
)

// PostingRepository reads and writes the (:Job)-[:REQUIRES]->(:Skill) graph
type PostingRepository struct {
	client *pkgneo4j.Client
}

// NewPostingRepository creates a PostingRepository with a Neo4j client
func NewPostingRepository(client *pkgneo4j.Client) *PostingRepository {
	return &PostingRepository{client: client}
}

const loadPostingsQuery = `
	MATCH (j:Job)
	WHERE $maxSalary IS NULL OR (j.salaryAvg IS NOT NULL AND j.salaryAvg <= $maxSalary)
	OPTIONAL MATCH (j)-[:WORKED_AT]->(c:Company)
	OPTIONAL MATCH (j)-[r:REQUIRES]->(s:Skill)
	WITH j, c,
	     collect(DISTINCT CASE WHEN NOT $requiredOnly OR coalesce(r.required, true) THEN s.name END) AS skills,
	     collect(DISTINCT CASE WHEN NOT coalesce(r.required, true) THEN s.name END) AS optional
	WHERE size(skills) > 0
	RETURN j, c.name AS company, skills, optional
	ORDER BY j.id
`

// LoadPostings returns stored jobs that have at least one matching skill, ordered by id
func (r *PostingRepository) LoadPostings(ctx context.Context, filter domain.PostingFilter) ([]domain.Posting, error) {
	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	var maxSalary any
	if filter.MaxSalary != nil {
		maxSalary = *filter.MaxSalary
	}

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, loadPostingsQuery, map[string]interface{}{
			"maxSalary":    maxSalary,
			"requiredOnly": filter.RequiredOnly,
		})
		if err != nil {
			return nil, err
		}

		postings := make([]domain.Posting, 0)
		for records.Next(ctx) {
			p, ok := parsePosting(records.Record())
			if !ok {
				continue
			}
			postings = append(postings, p)
		}
		return postings, records.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: failed to load postings: %w", err)
	}

	return result.([]domain.Posting), nil
}

func parsePosting(record *neo4j.Record) (domain.Posting, bool) {
	jobVal, ok := record.Get("j")
	if !ok {
		return domain.Posting{}, false
	}
	jobNode, ok := jobVal.(neo4j.Node)
	if !ok {
		return domain.Posting{}, false
	}

	props := jobNode.Props
	id := getStringProp(props, "id")
	if id == "" {
		return domain.Posting{}, false
	}

	return domain.Posting{
		ID:        id,
		Title:     getStringProp(props, "title"),
		Company:   getRecordString(record, "company"),
		Location:  getStringProp(props, "location"),
		Remote:    getBoolProp(props, "remote"),
		SalaryAvg: getFloatPtrProp(props, "salaryAvg"),
		Skills:    getStringSlice(record, "skills"),
		Optional:  getStringSlice(record, "optional"),
	}, true
}

const upsertPostingsQuery = `
	UNWIND $postings AS posting
	MERGE (j:Job {id: posting.id})
	SET j.title = posting.title,
	    j.location = posting.location,
	    j.remote = posting.remote,
	    j.salaryAvg = posting.salaryAvg
	WITH j, posting
	FOREACH (_ IN CASE WHEN posting.company <> "" THEN [1] ELSE [] END |
		MERGE (c:Company {name: posting.company})
		MERGE (j)-[:WORKED_AT]->(c)
	)
	WITH j, posting
	FOREACH (name IN posting.skills |
		MERGE (s:Skill {name: name})
		MERGE (j)-[r:REQUIRES]->(s)
		SET r.required = true
	)
	FOREACH (name IN posting.optional |
		MERGE (s:Skill {name: name})
		MERGE (j)-[r:REQUIRES]->(s)
		SET r.required = false
	)
`

// UpsertPostings merges postings into the graph. Skill names are stored in
// canonical form, Optional ones with r.required = false, and postings without
// an ID get a fresh UUID.
func (r *PostingRepository) UpsertPostings(ctx context.Context, postings []domain.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	data := make([]map[string]interface{}, 0, len(postings))
	for _, p := range postings {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}

		var salary any
		if p.SalaryAvg != nil {
			salary = *p.SalaryAvg
		}

		required, optional := skills.Partition(p.Skills, p.Optional)
		data = append(data, map[string]interface{}{
			"id":        id,
			"title":     p.Title,
			"company":   p.Company,
			"location":  p.Location,
			"remote":    p.Remote,
			"salaryAvg": salary,
			"skills":    required,
			"optional":  optional,
		})
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, upsertPostingsQuery, map[string]interface{}{"postings": data})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j: failed to upsert postings: %w", err)
	}

	return nil
}
