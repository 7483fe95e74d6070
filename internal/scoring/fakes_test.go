package scoring

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"alfredoptarigan/resume-scorer/internal/resilience"
)

type instantClock struct{}

func (instantClock) Now() time.Time { return time.Unix(0, 0) }
func (instantClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// testGuard retries transient failures without sleeping and without a limiter.
func testGuard() *resilience.Guard {
	return resilience.NewGuard(nil, resilience.Policy{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		MaxDelay:  time.Millisecond,
		Clock:     instantClock{},
	}, nil)
}

// scriptedCompleter returns queued responses in order.
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)

	i := len(s.prompts) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("unexpected call")
}

// fakeResume answers queries by substring match on the question.
type fakeResume struct {
	text    string
	answers map[string]string
	err     error
	asked   []string
}

func (f *fakeResume) ResumeText() string { return f.text }

func (f *fakeResume) Query(_ context.Context, question string) (string, error) {
	f.asked = append(f.asked, question)
	if f.err != nil {
		return "", f.err
	}
	for needle, answer := range f.answers {
		if strings.Contains(question, needle) {
			return answer, nil
		}
	}
	return "", nil
}

func ptr(v float64) *float64 { return &v }
