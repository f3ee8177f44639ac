package repository

import (
	"context"
)

// SkillCluster is one skill's membership in a partition run
type SkillCluster struct {
	Skill   string
	Cluster int
}

// ClusterWriter persists cluster membership so it can be queried outside an analysis session
type ClusterWriter interface {
	SaveClusters(ctx context.Context, runID string, clusters []SkillCluster) error
}
