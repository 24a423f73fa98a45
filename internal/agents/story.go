// ABOUTME: Story advisor that strengthens issue text into EARS requirements
// ABOUTME: and Gherkin acceptance criteria, with stop-phrase loop guards.

package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// Stop phrases emitted when a story cannot or should not be processed.
const (
	stopRepositoryNotInScope = "STOP: Repository not in scope"
	stopPrefixNotSupported   = "STOP: Issue prefix not supported"
	stopNotFunctionalStory   = "STOP: Issue is not a functional story"
	stopCriteriaLimit        = "STOP: Acceptance criteria limit exceeded"
	stopOpenQuestionLimit    = "STOP: Open question limit exceeded"
	stopUnsafeInference      = "STOP: Unsafe inference required"
)

// earsPattern selects the requirement phrasing applied during transformation.
type earsPattern int

const (
	patternUbiquitous earsPattern = iota
	patternEventDriven
	patternStateDriven
	patternUnwanted
)

var (
	whenThenRe  = regexp.MustCompile(`(?is)^\s*when\s+(.+?)[,]?\s+(?:then\s+)?the system\s+(?:shall\s+|must\s+|should\s+|will\s+)?(.+)$`)
	ifThenRe    = regexp.MustCompile(`(?is)^\s*if\s+(.+?)[,]?\s+then\s+(.+)$`)
	whileThenRe = regexp.MustCompile(`(?is)^\s*while\s+(.+?)[,]?\s+the system\s+(?:shall\s+|must\s+|should\s+|will\s+)?(.+)$`)
	modalRe     = regexp.MustCompile(`(?i)\b(should|may|might|could|would|ideally|possibly|perhaps)\s+`)
	prefixRe    = regexp.MustCompile(`(?i)^(the\s+system\s+)?(must|shall|should|will)\s+`)
)

// unsafeTerms are judgment areas the advisor refuses to infer requirements
// for; a human decision is required.
var unsafeTerms = []string{"legal", "financial liability", "regulatory", "compliance ruling"}

// StoryOptions tunes story processing limits.
type StoryOptions struct {
	Repository       string // allowed source repository
	MaxCriteria      int    // acceptance criteria before a stop
	MaxOpenQuestions int    // open questions before a stop
}

// StoryAgent turns loosely written stories into testable requirements.
// It validates the issue envelope, rewrites each requirement into EARS
// phrasing, derives Gherkin acceptance criteria, and stops with an explicit
// phrase instead of looping when the material resists strengthening.
type StoryAgent struct {
	baseAgent
	repository       string
	maxCriteria      int
	maxOpenQuestions int
}

// NewStoryAgent builds the story advisor with default limits.
func NewStoryAgent() *StoryAgent {
	return NewStoryAgentWith(StoryOptions{})
}

// NewStoryAgentWith builds the story advisor with explicit limits. Zero
// values take the defaults.
func NewStoryAgentWith(opts StoryOptions) *StoryAgent {
	if opts.Repository == "" {
		opts.Repository = "durion-positivity-backend"
	}
	if opts.MaxCriteria <= 0 {
		opts.MaxCriteria = 25
	}
	if opts.MaxOpenQuestions <= 0 {
		opts.MaxOpenQuestions = 10
	}
	return &StoryAgent{
		baseAgent: baseAgent{
			domain: advisor.DomainStory,
			capabilities: []string{
				"story-analysis",
				"requirement-analysis",
				"requirement-transformation",
				"quality-improvement",
				"loop-detection",
			},
		},
		repository:       opts.Repository,
		maxCriteria:      opts.MaxCriteria,
		maxOpenQuestions: opts.MaxOpenQuestions,
	}
}

func (a *StoryAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	if stop := a.validateIssue(req); stop != "" {
		return advisor.Stopped(a.domain, stop), nil
	}

	body := req.Description
	requirements := extractRequirements(body)
	questions := extractOpenQuestions(body)

	if term := unsafeTerm(body); term != "" {
		return advisor.Stopped(a.domain,
			fmt.Sprintf("%s: %q needs a human decision", stopUnsafeInference, term)), nil
	}
	if len(questions) > a.maxOpenQuestions {
		return advisor.Stopped(a.domain, fmt.Sprintf("%s: %d questions open",
			stopOpenQuestionLimit, len(questions))), nil
	}

	ears := make([]string, 0, len(requirements))
	scenarios := make([]string, 0, len(requirements))
	for _, r := range requirements {
		ears = append(ears, transformEARS(r))
		scenarios = append(scenarios, gherkinScenario(r))
	}
	if len(scenarios) > a.maxCriteria {
		return advisor.Stopped(a.domain, fmt.Sprintf("%s: %d scenarios generated",
			stopCriteriaLimit, len(scenarios))), nil
	}

	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          renderStory(req.Context.PropertyOr("title", "Untitled story"), ears, scenarios, questions),
		Confidence:      0.85,
		Recommendations: []string{"review generated criteria with the story author before implementation"},
		Metadata: map[string]any{
			"requirements":   len(ears),
			"scenarios":      len(scenarios),
			"open_questions": len(questions),
		},
	}), nil
}

// validateIssue applies the activation gates: repository in scope, title
// carries the story prefixes, and the body reads like a functional story
// rather than an epic, task, or bug.
func (a *StoryAgent) validateIssue(req *advisor.Request) string {
	if repo := req.Context.PropertyOr("repository", ""); repo != a.repository {
		return fmt.Sprintf("%s: %q", stopRepositoryNotInScope, repo)
	}
	title := req.Context.PropertyOr("title", "")
	if !strings.Contains(title, "[BACKEND]") || !strings.Contains(title, "[STORY]") {
		return fmt.Sprintf("%s: %q", stopPrefixNotSupported, title)
	}
	if !isFunctionalStory(req.Description, listProperty(req, "labels")) {
		return stopNotFunctionalStory
	}
	return ""
}

func isFunctionalStory(body string, labels []string) bool {
	for _, label := range labels {
		l := strings.ToLower(label)
		if strings.Contains(l, "epic") || strings.Contains(l, "task") || strings.Contains(l, "bug") {
			return false
		}
	}
	if len(strings.TrimSpace(body)) < 20 {
		return false
	}
	lower := strings.ToLower(body)
	for _, marker := range []string{"as a", "i want", "so that", "user story", "acceptance criteria"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractRequirements pulls requirement-bearing lines: bullets and lines
// with the shall/must/when/if vocabulary. Narrative lines are skipped.
func extractRequirements(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*"))
		if line == "" || strings.HasSuffix(line, "?") {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range []string{"shall ", "must ", "when ", "if ", "while "} {
			if strings.Contains(lower, kw) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

// extractOpenQuestions collects lines that end in a question mark or carry
// an explicit open marker.
func extractOpenQuestions(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*"))
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasSuffix(line, "?") || strings.Contains(lower, "tbd") || strings.Contains(lower, "to be decided") {
			out = append(out, line)
		}
	}
	return out
}

func unsafeTerm(body string) string {
	lower := strings.ToLower(body)
	for _, term := range unsafeTerms {
		if strings.Contains(lower, term) {
			return term
		}
	}
	return ""
}

func classify(text string) earsPattern {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(lower, "if "):
		return patternUnwanted
	case strings.HasPrefix(lower, "while "):
		return patternStateDriven
	case strings.HasPrefix(lower, "when "):
		return patternEventDriven
	default:
		return patternUbiquitous
	}
}

// transformEARS rewrites a requirement into its EARS phrasing: WHEN for
// triggers, WHILE for states, IF/THEN for unwanted behavior, and the plain
// ubiquitous form otherwise.
func transformEARS(text string) string {
	text = strings.TrimSpace(text)
	switch classify(text) {
	case patternEventDriven:
		if m := whenThenRe.FindStringSubmatch(text); m != nil {
			return fmt.Sprintf("WHEN %s THE system SHALL %s", strings.TrimSpace(m[1]), lowerFirst(strings.TrimSpace(m[2])))
		}
		return "WHEN " + strings.TrimSpace(text[len("when "):])
	case patternStateDriven:
		if m := whileThenRe.FindStringSubmatch(text); m != nil {
			return fmt.Sprintf("WHILE %s THE system SHALL %s", strings.TrimSpace(m[1]), lowerFirst(strings.TrimSpace(m[2])))
		}
		return "WHILE " + strings.TrimSpace(text[len("while "):])
	case patternUnwanted:
		if m := ifThenRe.FindStringSubmatch(text); m != nil {
			then := prefixRe.ReplaceAllString(strings.TrimSpace(m[2]), "")
			return fmt.Sprintf("IF %s THEN THE system SHALL %s", strings.TrimSpace(m[1]), lowerFirst(then))
		}
		return "IF " + strings.TrimSpace(text[len("if "):])
	default:
		stripped := prefixRe.ReplaceAllString(text, "")
		return "THE system SHALL " + lowerFirst(strings.TrimSpace(stripped))
	}
}

// gherkinScenario derives a Given/When/Then block from a requirement.
// Modal verbs are stripped so every Then clause states a verifiable fact.
func gherkinScenario(text string) string {
	clean := modalRe.ReplaceAllString(text, "")
	var given, when, then string
	switch classify(text) {
	case patternEventDriven:
		if m := whenThenRe.FindStringSubmatch(clean); m != nil {
			when, then = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
	case patternUnwanted:
		if m := ifThenRe.FindStringSubmatch(clean); m != nil {
			when, then = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
	case patternStateDriven:
		if m := whileThenRe.FindStringSubmatch(clean); m != nil {
			given, then = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
	}
	if given == "" {
		given = "the system is running"
	}
	if when == "" {
		when = "the behavior is exercised"
	}
	if then == "" {
		then = lowerFirst(prefixRe.ReplaceAllString(strings.TrimSpace(clean), ""))
	}
	then = prefixRe.ReplaceAllString(then, "")

	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n", scenarioName(text))
	fmt.Fprintf(&b, "  Given %s\n", given)
	fmt.Fprintf(&b, "  When %s\n", when)
	fmt.Fprintf(&b, "  Then %s", then)
	return b.String()
}

func scenarioName(text string) string {
	words := strings.Fields(modalRe.ReplaceAllString(text, ""))
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// renderStory lays out the strengthened document as markdown.
func renderStory(title string, ears, scenarios, questions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n## Requirements\n\n", title)
	for i, r := range ears {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	b.WriteString("\n## Acceptance Criteria\n\n")
	for _, s := range scenarios {
		b.WriteString("```gherkin\n" + s + "\n```\n\n")
	}
	if len(questions) > 0 {
		b.WriteString("## Open Questions\n\n")
		for _, q := range questions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
