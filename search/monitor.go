package search

import (
	"github.com/poiesic/qabot/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query core.Vector)
	AfterCorpusFetch(records int)
	RecordSkipped(id string, err error)
	CandidateAccepted(candidate core.Candidate)
	Finish(outcome *core.SearchOutcome)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Vector)                {}
func (n *noopMonitor) AfterCorpusFetch(_ int)             {}
func (n *noopMonitor) RecordSkipped(_ string, _ error)    {}
func (n *noopMonitor) CandidateAccepted(_ core.Candidate) {}
func (n *noopMonitor) Finish(_ *core.SearchOutcome)       {}
