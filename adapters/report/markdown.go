package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goscreen/domain/screening"
)

// MarkdownReporter renders the session summary as a Markdown document.
type MarkdownReporter struct{}

func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

func (r *MarkdownReporter) Extension() string {
	return "md"
}

// Render produces the Markdown report body.
func (r *MarkdownReporter) Render(ctx context.Context, rep screening.Report) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Screening Session Report\n\n")
	fmt.Fprintf(&b, "- **Session**: %s\n", rep.SessionID)
	if rep.Category != "" {
		fmt.Fprintf(&b, "- **Category**: %s\n", rep.Category)
	}
	fmt.Fprintf(&b, "- **Prior**: %.4f\n", rep.Prior)
	fmt.Fprintf(&b, "- **Trials completed**: %d / %d (%d correct)\n", rep.CompletedTrials, rep.TrialCount, rep.CorrectCount)
	fmt.Fprintf(&b, "- **Posterior**: %.6f\n", rep.Posterior)
	fmt.Fprintf(&b, "- **Verdict**: %s — %s\n", rep.Verdict, rep.Verdict.Advice())
	fmt.Fprintf(&b, "- **Fingerprint**: `%s`\n\n", rep.Fingerprint)

	if len(rep.Trials) > 0 {
		fmt.Fprintf(&b, "## Trial History\n\n")
		fmt.Fprintf(&b, "| Trial | Outcome | P(correct \\| positive) | P(correct \\| negative) | Posterior before | Posterior after |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
		for _, t := range rep.Trials {
			outcome := "wrong"
			if t.Correct {
				outcome = "correct"
			}
			fmt.Fprintf(&b, "| %d | %s | %.4f | %.4f | %.6f | %.6f |\n",
				t.Index+1, outcome, t.LikelihoodIfPositive, t.LikelihoodIfNegative, t.PosteriorBefore, t.PosteriorAfter)
		}
		b.WriteString("\n")
	}

	if rep.Conjugate != nil {
		c := rep.Conjugate
		fmt.Fprintf(&b, "## Conjugate Cross-Check\n\n")
		fmt.Fprintf(&b, "Beta(%.2f, %.2f) posterior over the population condition rate.\n\n", c.AlphaPosterior, c.BetaPosterior)
		fmt.Fprintf(&b, "- **Mean**: %.4f\n", c.Mean)
		fmt.Fprintf(&b, "- **Variance**: %.6f\n", c.Variance)
		fmt.Fprintf(&b, "- **95%% credible interval**: [%.4f, %.4f]\n\n", c.CredibleLow, c.CredibleHigh)
		b.WriteString("The conjugate estimate is independent of the likelihood-ratio posterior; the two may disagree.\n")
	}

	return []byte(b.String()), nil
}

// HTMLReporter wraps the Markdown reporter and renders the result to HTML.
type HTMLReporter struct {
	md *MarkdownReporter
}

func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{md: NewMarkdownReporter()}
}

func (r *HTMLReporter) Extension() string {
	return "html"
}

func (r *HTMLReporter) Render(ctx context.Context, rep screening.Report) ([]byte, error) {
	src, err := r.md.Render(ctx, rep)
	if err != nil {
		return nil, err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(src, p, renderer), nil
}
