package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/skillgraph/internal/repository"
	pkgneo4j "github.com/honeycarbs/skillgraph/pkg/neo4j"
)

var _ repository.ClusterWriter = (*ClusterRepository)(nil)

// ClusterRepository stores skill cluster membership on Skill nodes
type ClusterRepository struct {
	client *pkgneo4j.Client
}

// NewClusterRepository creates a ClusterRepository with a Neo4j client
func NewClusterRepository(client *pkgneo4j.Client) *ClusterRepository {
	return &ClusterRepository{client: client}
}

const (
	clearClustersQuery = `
	MATCH (s:Skill)
	WHERE s.clusterRun IS NOT NULL AND s.clusterRun <> $runId
	REMOVE s.cluster, s.clusterRun, s.clusteredAt
`

	saveClustersQuery = `
	UNWIND $clusters AS entry
	MERGE (s:Skill {name: entry.skill})
	SET s.cluster = entry.cluster,
	    s.clusterRun = $runId,
	    s.clusteredAt = datetime()
`
)

// SaveClusters tags each skill with its cluster id and the run that produced it.
// Tags of earlier runs are removed in the same transaction, so at most one
// partition is stored at a time.
func (r *ClusterRepository) SaveClusters(ctx context.Context, runID string, clusters []repository.SkillCluster) error {
	if len(clusters) == 0 {
		return nil
	}

	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		cleared, err := tx.Run(ctx, clearClustersQuery, map[string]interface{}{"runId": runID})
		if err != nil {
			return nil, fmt.Errorf("failed to clear previous clusters: %w", err)
		}
		if _, err := cleared.Consume(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear previous clusters: %w", err)
		}

		result, err := tx.Run(ctx, saveClustersQuery, clusterParams(runID, clusters))
		if err != nil {
			return nil, fmt.Errorf("failed to execute cluster persistence query: %w", err)
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}

	return nil
}

func clusterParams(runID string, clusters []repository.SkillCluster) map[string]interface{} {
	data := make([]map[string]interface{}, 0, len(clusters))
	for _, c := range clusters {
		data = append(data, map[string]interface{}{
			"skill":   c.Skill,
			"cluster": c.Cluster,
		})
	}
	return map[string]interface{}{"clusters": data, "runId": runID}
}
