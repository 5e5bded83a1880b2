package hierarchy

import (
	"fmt"
	"strings"

	"gl-setup/internal/treedoc"
	"gl-setup/internal/verification"
)

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	}
	return false, false
}

// canonical returns the option equal to s ignoring case.
func canonical(s string, options ...string) (string, bool) {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(s), o) {
			return o, true
		}
	}
	return "", false
}

// attrReader resolves the attributes of one document element, recording
// problems in vr.
type attrReader struct {
	el  *treedoc.Element
	ctx string
	vr  *verification.Results
}

func (r attrReader) invalid(key, value string, allowed ...string) {
	msg := fmt.Sprintf("invalid value %q for attribute %q", value, key)
	if len(allowed) > 0 {
		msg += ", expected one of " + strings.Join(allowed, ", ")
	}
	r.vr.AddResult(verification.Result{
		Context:  r.ctx,
		Message:  msg,
		Severity: verification.Critical,
		Code:     verification.CodeInvalidAttribute,
	})
}

func (r attrReader) unknown(known []string) {
	for _, a := range r.el.Attrs {
		found := false
		for _, k := range known {
			if a.Key == k {
				found = true
				break
			}
		}
		if !found {
			// most often a child element written with a scalar value
			r.vr.Critical(verification.CodeInvalidAttribute, r.ctx,
				fmt.Sprintf("unknown attribute %q, a child element needs a mapping value like %q: {}", a.Key, a.Key))
		}
	}
}

func (r attrReader) str(key string) string {
	v, _ := r.el.Attr(key)
	return strings.TrimSpace(v)
}

// flag reads a boolean attribute, falling back to def.
func (r attrReader) flag(key string, def bool) bool {
	v, ok := r.el.Attr(key)
	if !ok {
		return def
	}
	b, valid := parseBool(v)
	if !valid {
		r.invalid(key, v, "true", "false")
		return def
	}
	return b
}

// choice reads an enumerated attribute, falling back to inherited.
func (r attrReader) choice(key, inherited string, options ...string) string {
	v, ok := r.el.Attr(key)
	if !ok {
		return inherited
	}
	c, valid := canonical(v, options...)
	if !valid {
		r.invalid(key, v, options...)
		return inherited
	}
	return c
}

// emit lists the attributes of n in order, leaving out empty values and
// unset optional flags.
func emit(n *Node, order []string, optional map[string]bool) []treedoc.Attr {
	var out []treedoc.Attr
	for _, k := range order {
		v := n.Attrs[k]
		if v == "" || (optional[k] && v == "false") {
			continue
		}
		out = append(out, treedoc.Attr{Key: k, Value: v})
	}
	return out
}
