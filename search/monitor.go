package search

// Monitor provides hooks to observe the search process.
// Implement this interface to trace which combinations were tried and what they matched.
type Monitor interface {
	Start(keywords []string)
	CombinationTried(size int, combination []string, matched []string)
	Finish(results []string)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ []string)                      {}
func (n *noopMonitor) CombinationTried(_ int, _, _ []string) {}
func (n *noopMonitor) Finish(_ []string)                     {}
