// ABOUTME: Tests for the story strengthening pipeline: activation gates,
// ABOUTME: EARS transformation, Gherkin generation, and stop phrases.

package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

func storyRequest(body string, props map[string]string) *advisor.Request {
	merged := map[string]string{
		"repository": "durion-positivity-backend",
		"title":      "[BACKEND] [STORY] Faster checkout",
	}
	for k, v := range props {
		merged[k] = v
	}
	req := consultRequest(advisor.DomainStory, merged)
	req.Description = body
	return req
}

const storyBody = `As a shopper I want a faster checkout so that I can finish in one step.

Acceptance criteria:
- WHEN the shopper submits the cart the system shall create an order
- IF payment authorization fails then the system must keep the cart intact
- WHILE an order is pending the system shall block duplicate submissions
- The system must send a confirmation email
`

func TestStoryAgentStrengthensStory(t *testing.T) {
	a := NewStoryAgent()
	resp, err := a.Handle(context.Background(), storyRequest(storyBody, nil))
	require.NoError(t, err)
	require.Equal(t, advisor.StatusSuccess, resp.Status())

	out := resp.Output()
	assert.Contains(t, out, "WHEN the shopper submits the cart THE system SHALL create an order")
	assert.Contains(t, out, "IF payment authorization fails THEN THE system SHALL keep the cart intact")
	assert.Contains(t, out, "WHILE an order is pending THE system SHALL block duplicate submissions")
	assert.Contains(t, out, "THE system SHALL send a confirmation email")
	assert.Contains(t, out, "```gherkin")
	assert.Contains(t, out, "Given the system is running")

	md := resp.Metadata()
	assert.Equal(t, 4, md["requirements"])
	assert.Equal(t, 4, md["scenarios"])
}

func TestStoryAgentActivationGates(t *testing.T) {
	a := NewStoryAgent()
	tests := []struct {
		name  string
		body  string
		props map[string]string
		stop  string
	}{
		{
			name:  "wrong repository",
			body:  storyBody,
			props: map[string]string{"repository": "some-other-repo"},
			stop:  "STOP: Repository not in scope",
		},
		{
			name:  "missing prefix",
			body:  storyBody,
			props: map[string]string{"title": "Faster checkout"},
			stop:  "STOP: Issue prefix not supported",
		},
		{
			name:  "labeled as bug",
			body:  storyBody,
			props: map[string]string{"labels": "bug, backend"},
			stop:  "STOP: Issue is not a functional story",
		},
		{
			name: "no story language",
			body: "Refactor the checkout module to reduce duplication across handlers.",
			stop: "STOP: Issue is not a functional story",
		},
		{
			name: "trivial body",
			body: "As a user.",
			stop: "STOP: Issue is not a functional story",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := a.Handle(context.Background(), storyRequest(tt.body, tt.props))
			require.NoError(t, err)
			assert.Equal(t, advisor.StatusStopped, resp.Status())
			assert.Contains(t, resp.Output(), tt.stop)
		})
	}
}

func TestStoryAgentLoopGuards(t *testing.T) {
	t.Run("open question limit", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("As a shopper I want clarity so that I can decide.\n")
		for i := 0; i < 11; i++ {
			b.WriteString("- What about edge case number ")
			b.WriteByte(byte('a' + i))
			b.WriteString("?\n")
		}
		resp, err := NewStoryAgent().Handle(context.Background(), storyRequest(b.String(), nil))
		require.NoError(t, err)
		assert.Equal(t, advisor.StatusStopped, resp.Status())
		assert.Contains(t, resp.Output(), "STOP: Open question limit exceeded")
	})

	t.Run("acceptance criteria limit", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("As a shopper I want everything so that nothing is missing.\n")
		for i := 0; i < 30; i++ {
			b.WriteString("- WHEN event fires the system shall react\n")
		}
		a := NewStoryAgentWith(StoryOptions{MaxCriteria: 25})
		resp, err := a.Handle(context.Background(), storyRequest(b.String(), nil))
		require.NoError(t, err)
		assert.Equal(t, advisor.StatusStopped, resp.Status())
		assert.Contains(t, resp.Output(), "STOP: Acceptance criteria limit exceeded")
	})

	t.Run("unsafe inference", func(t *testing.T) {
		body := "As a merchant I want refunds so that disputes settle.\n- WHEN a dispute opens the system shall determine the legal outcome\n"
		resp, err := NewStoryAgent().Handle(context.Background(), storyRequest(body, nil))
		require.NoError(t, err)
		assert.Equal(t, advisor.StatusStopped, resp.Status())
		assert.Contains(t, resp.Output(), "STOP: Unsafe inference required")
	})
}

func TestStoryAgentCustomOptions(t *testing.T) {
	a := NewStoryAgentWith(StoryOptions{Repository: "another-repo"})
	resp, err := a.Handle(context.Background(), storyRequest(storyBody, map[string]string{"repository": "another-repo"}))
	require.NoError(t, err)
	assert.Equal(t, advisor.StatusSuccess, resp.Status())
}

func TestTransformEARS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The system must send a confirmation email", "THE system SHALL send a confirmation email"},
		{"shall retry failed deliveries", "THE system SHALL retry failed deliveries"},
		{"WHEN the cart is submitted the system shall create an order", "WHEN the cart is submitted THE system SHALL create an order"},
		{"If the token expires then the system should reject the call", "IF the token expires THEN THE system SHALL reject the call"},
		{"While a job runs the system shall report progress", "WHILE a job runs THE system SHALL report progress"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, transformEARS(tt.in), "input: %s", tt.in)
	}
}

func TestGherkinFiltersModalVerbs(t *testing.T) {
	s := gherkinScenario("WHEN the user logs in the system should possibly show a dashboard")
	assert.NotContains(t, strings.ToLower(s), "should")
	assert.NotContains(t, strings.ToLower(s), "possibly")
	assert.Contains(t, s, "Scenario:")
	assert.Contains(t, s, "Then ")
}

func TestPairNavigatorLoopDetection(t *testing.T) {
	a := NewPairNavigatorAgent()

	t.Run("under the limit", func(t *testing.T) {
		resp, err := a.Handle(context.Background(), consultRequest(advisor.DomainPairNavigator, map[string]string{
			"objective": "review the parser change",
			"attempts":  "2",
		}))
		require.NoError(t, err)
		assert.Equal(t, advisor.StatusSuccess, resp.Status())
		assert.Equal(t, 2, resp.Metadata()["attempts"])
	})

	t.Run("at the limit", func(t *testing.T) {
		resp, err := a.Handle(context.Background(), consultRequest(advisor.DomainPairNavigator, map[string]string{
			"attempts": "3",
		}))
		require.NoError(t, err)
		assert.Equal(t, advisor.StatusStopped, resp.Status())
		assert.Contains(t, resp.Output(), "STOP:")
	})
}
