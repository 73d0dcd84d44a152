package linkrewrite

// Env is the rendering environment of the document a link was found in. Rules receive it
// for interface compatibility with the markdown pipeline but never inspect it.
type Env any

// Rule pairs a prefix predicate with a transform.
type Rule struct {
	Name      string
	Match     func(link string) bool
	Transform func(link string) string
}

// Rewriter applies rules in order; the first matching rule wins.
type Rewriter struct {
	rules []Rule
}

// New returns a Rewriter over a copy of rules.
func New(rules ...Rule) *Rewriter {
	return &Rewriter{rules: append([]Rule(nil), rules...)}
}

// Rewrite returns the href that should be emitted for link.
func (r *Rewriter) Rewrite(link string, env Env) string {
	out, _ := r.Apply(link, env)
	return out
}

// Apply is Rewrite that also reports the name of the matching rule, or "" when no rule
// matched.
func (r *Rewriter) Apply(link string, _ Env) (string, string) {
	if r == nil {
		return link, ""
	}
	for _, rule := range r.rules {
		if rule.Match(link) {
			return rule.Transform(link), rule.Name
		}
	}
	return link, ""
}

// Rules returns the rule names in evaluation order.
func (r *Rewriter) Rules() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		names = append(names, rule.Name)
	}
	return names
}
