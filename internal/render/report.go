package render

// Outcome records what happened to a single highlight during a render pass.
// One bad position record degrades gracefully: the highlight is skipped with
// a reason rather than aborting the whole render.
type Outcome struct {
	HighlightID string `json:"highlight_id"`
	Rendered    bool   `json:"rendered"`
	Reason      string `json:"reason,omitempty"`
}

// Report aggregates per-highlight outcomes of one render pass, in the input
// highlight order.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Skipped returns the outcomes of highlights that were not rendered.
func (r *Report) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Rendered {
			out = append(out, o)
		}
	}
	return out
}

// reportBuilder collects outcomes keyed by highlight while the renderer
// processes highlights in its own internal order, then emits them in input
// order.
type reportBuilder struct {
	order    []string
	outcomes map[string]Outcome
}

func newReportBuilder(ids []string) *reportBuilder {
	b := &reportBuilder{outcomes: make(map[string]Outcome, len(ids))}
	for _, id := range ids {
		b.order = append(b.order, id)
	}
	return b
}

func (b *reportBuilder) rendered(id string) {
	b.outcomes[id] = Outcome{HighlightID: id, Rendered: true}
}

func (b *reportBuilder) skip(id, reason string) {
	// First verdict wins; a later pass never downgrades a rendered highlight.
	if o, ok := b.outcomes[id]; ok && o.Rendered {
		return
	}
	b.outcomes[id] = Outcome{HighlightID: id, Rendered: false, Reason: reason}
}

func (b *reportBuilder) report() *Report {
	rep := &Report{}
	for _, id := range b.order {
		if o, ok := b.outcomes[id]; ok {
			rep.Outcomes = append(rep.Outcomes, o)
		}
	}
	return rep
}
