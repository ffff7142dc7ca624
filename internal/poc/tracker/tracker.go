// Package tracker implements the Usage Tracker: per-request sessions of
// ordered invocation records, a bounded archive, and analytics rollups.
package tracker

import (
	"sync"
	"time"

	"github.com/libreassistant/poc/internal/poc/protocol"
)

// Outcome is a RequestSession's final disposition.
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeDuplicate       Outcome = "duplicate"
	OutcomeBudgetExhausted Outcome = "budget_exhausted"
	OutcomeCancelled       Outcome = "cancelled"
)

// InvocationRecord is one plugin call within a session.
type InvocationRecord struct {
	Index     int
	PluginID  string
	Input     map[string]interface{}
	Reason    string
	Start     time.Time
	End       time.Time
	Success   bool
	Result    map[string]interface{}
	ErrorMsg  string
	Cancelled bool
}

// Session is a per-request container of invocation records. Mutation is
// serialised by its own lock; sessions never share mutable state.
type Session struct {
	mu           sync.Mutex
	RequestID    string
	Start        time.Time
	End          time.Time
	Outcome      Outcome
	records      []InvocationRecord
	lastFp       protocol.Fingerprint
	hasLastFp    bool
}

// Invocations returns a copy of the session's records, safe for concurrent
// external reads.
func (s *Session) Invocations() []InvocationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]InvocationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Tracker owns every active and archived Session.
type Tracker struct {
	mu          sync.RWMutex
	active      map[string]*Session
	archive     []*Session
	archiveSize int
}

// New builds a Tracker retaining up to archiveSize completed sessions.
func New(archiveSize int) *Tracker {
	if archiveSize <= 0 {
		archiveSize = 100
	}
	return &Tracker{
		active:      make(map[string]*Session),
		archiveSize: archiveSize,
	}
}

// StartSession begins tracking requestID; the session lives until Finish
// or ArchiveAll is called.
func (t *Tracker) StartSession(requestID string) *Session {
	s := &Session{RequestID: requestID, Start: time.Now()}
	t.mu.Lock()
	t.active[requestID] = s
	t.mu.Unlock()
	return s
}

// RecordInvocation appends a new, in-flight invocation record and returns
// its index within the session.
func (t *Tracker) RecordInvocation(s *Session, pluginID string, input map[string]interface{}, reason string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := len(s.records)
	s.records = append(s.records, InvocationRecord{
		Index:    idx,
		PluginID: pluginID,
		Input:    input,
		Reason:   reason,
		Start:    time.Now(),
	})
	return idx
}

// UpdateInvocationResult finalises the record at idx with a success/result
// or an error message.
func (t *Tracker) UpdateInvocationResult(s *Session, idx int, success bool, result map[string]interface{}, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.records) {
		return
	}
	rec := &s.records[idx]
	rec.End = time.Now()
	rec.Success = success
	rec.Result = result
	rec.ErrorMsg = errMsg
}

// MarkCancelled finalises the record at idx as cancelled.
func (t *Tracker) MarkCancelled(s *Session, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.records) {
		return
	}
	rec := &s.records[idx]
	rec.End = time.Now()
	rec.Cancelled = true
}

// CheckConsecutiveDuplicate reports whether fp matches the fingerprint of
// the immediately preceding invocation, then records fp as the new last
// fingerprint regardless.
func (t *Tracker) CheckConsecutiveDuplicate(s *Session, fp protocol.Fingerprint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := s.hasLastFp && s.lastFp == fp
	s.lastFp = fp
	s.hasLastFp = true
	return dup
}

// Finish marks the session complete with outcome and moves it into the
// bounded archive, evicting the oldest entry if full.
func (t *Tracker) Finish(s *Session, outcome Outcome) {
	s.mu.Lock()
	s.End = time.Now()
	s.Outcome = outcome
	s.mu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, s.RequestID)
	t.archive = append(t.archive, s)
	if len(t.archive) > t.archiveSize {
		t.archive = t.archive[len(t.archive)-t.archiveSize:]
	}
}

// ArchiveAll force-finishes every still-active session with
// OutcomeCancelled, marking any still-open invocation record as cancelled,
// and sweeps them into the archive. Used by the Lifecycle Controller at
// shutdown so an in-flight dispatch is never silently dropped.
func (t *Tracker) ArchiveAll() {
	t.mu.Lock()
	sessions := make([]*Session, 0, len(t.active))
	for _, s := range t.active {
		sessions = append(sessions, s)
	}
	t.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		for i := range s.records {
			if s.records[i].End.IsZero() {
				s.records[i].End = time.Now()
				s.records[i].Cancelled = true
			}
		}
		s.mu.Unlock()
		t.Finish(s, OutcomeCancelled)
	}
}

// Summary is the aggregate analytics snapshot over the archived sessions.
type Summary struct {
	SessionCount       int
	InvocationsByPlugin map[string]int
	SuccessRateByPlugin map[string]float64
	AvgLatencyByPlugin  map[string]time.Duration
	MostUsedPlugin      string
}

// GetSessionSummary computes rollups over the current archive snapshot.
func (t *Tracker) GetSessionSummary() Summary {
	t.mu.RLock()
	archive := make([]*Session, len(t.archive))
	copy(archive, t.archive)
	t.mu.RUnlock()

	counts := map[string]int{}
	successes := map[string]int{}
	totalLatency := map[string]time.Duration{}

	for _, s := range archive {
		for _, rec := range s.Invocations() {
			counts[rec.PluginID]++
			if rec.Success {
				successes[rec.PluginID]++
			}
			if !rec.End.IsZero() {
				totalLatency[rec.PluginID] += rec.End.Sub(rec.Start)
			}
		}
	}

	successRate := map[string]float64{}
	avgLatency := map[string]time.Duration{}
	mostUsed := ""
	mostUsedCount := -1
	for pid, n := range counts {
		if n > 0 {
			successRate[pid] = float64(successes[pid]) / float64(n)
			avgLatency[pid] = totalLatency[pid] / time.Duration(n)
		}
		if n > mostUsedCount {
			mostUsedCount = n
			mostUsed = pid
		}
	}

	return Summary{
		SessionCount:        len(archive),
		InvocationsByPlugin: counts,
		SuccessRateByPlugin: successRate,
		AvgLatencyByPlugin:  avgLatency,
		MostUsedPlugin:      mostUsed,
	}
}
