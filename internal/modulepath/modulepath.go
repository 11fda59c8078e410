// Package modulepath turns user-entered module paths into canonical,
// namespace-safe paths.
//
// Overview:
//   - Responsibility: Normalize module paths and derive namespaces and type names
//   - Key Types: Path (immutable value)
//   - Concurrency Model: Path is immutable and safe for concurrent use
//   - Error Semantics: INVALID_ARGUMENT for paths that cannot form a namespace
//
// Rules: "/" and "\" both separate segments, empty segments are dropped, each
// segment is transliterated to ASCII, split on non-alphanumeric runes and
// re-joined with each word's first letter upper-cased. A segment that is empty
// after sanitizing or starts with a digit is rejected, as is a last segment that
// is a PHP reserved word. Normalization is idempotent.
//
// Usage:
//
//	p, err := modulepath.Parse("billing/invoice", "App")
//	p.Normalized()               // "Billing/Invoice"
//	p.Namespace("Domain", "Model") // "App\Billing\Invoice\Domain\Model"
//	p.ShortTypeName()            // "Invoice"
package modulepath

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"

	"go.eggybyte.com/dddmaker/internal/core/errors"
)

// DefaultRootNamespace is used when no root namespace is configured.
const DefaultRootNamespace = "App"

// Path is a normalized module path anchored under a root namespace.
type Path struct {
	raw      string
	segments []string
	root     string
}

// Parse normalizes raw and validates rootNamespace.
//
// Parameters:
//   - raw: Module path as entered by the user ("billing/invoice", "Billing\Invoice")
//   - rootNamespace: Namespace prefix for generated classes; empty means "App"
//
// Returns:
//   - Path: Normalized module path
//   - error: INVALID_ARGUMENT when raw or rootNamespace cannot be used
func Parse(raw, rootNamespace string) (Path, error) {
	segments, err := normalizeSegments(raw)
	if err != nil {
		return Path{}, err
	}

	root, err := NormalizeRootNamespace(rootNamespace)
	if err != nil {
		return Path{}, err
	}

	return Path{raw: raw, segments: segments, root: root}, nil
}

// Normalize returns the canonical "/"-separated form of raw.
func Normalize(raw string) (string, error) {
	segments, err := normalizeSegments(raw)
	if err != nil {
		return "", err
	}
	return strings.Join(segments, "/"), nil
}

// NormalizeRootNamespace trims surrounding backslashes and checks that every
// part is a valid identifier.
func NormalizeRootNamespace(ns string) (string, error) {
	ns = strings.Trim(strings.TrimSpace(ns), `\`)
	if ns == "" {
		return DefaultRootNamespace, nil
	}
	for _, part := range strings.Split(ns, `\`) {
		if !IsIdentifier(part) {
			return "", errors.Newf(errors.CodeInvalidArgument, "invalid root namespace %q", ns)
		}
	}
	return ns, nil
}

// IsIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', isLetter(c):
		case isDigit(c) && i > 0:
		default:
			return false
		}
	}
	return true
}

// Raw returns the path as originally entered.
func (p Path) Raw() string { return p.raw }

// Normalized returns the canonical "/"-separated path.
func (p Path) Normalized() string { return strings.Join(p.segments, "/") }

// String implements fmt.Stringer.
func (p Path) String() string { return p.Normalized() }

// RootNamespace returns the validated root namespace.
func (p Path) RootNamespace() string { return p.root }

// Segments returns a copy of the normalized segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// ShortTypeName returns the last segment, used as the class-name prefix.
func (p Path) ShortTypeName() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Namespace returns the module namespace followed by the given parts. Parts may
// themselves contain "/" or "\" separators.
func (p Path) Namespace(parts ...string) string {
	all := make([]string, 0, 1+len(p.segments)+len(parts))
	all = append(all, p.root)
	all = append(all, p.segments...)
	for _, part := range parts {
		all = append(all, splitSegments(part)...)
	}
	return strings.Join(all, `\`)
}

// Key returns a lowercase slug identifying the module ("billing-invoice").
func (p Path) Key() string {
	return slug.Make(strings.Join(p.segments, " "))
}

func normalizeSegments(raw string) ([]string, error) {
	parts := splitSegments(raw)
	if len(parts) == 0 {
		return nil, errors.New(errors.CodeInvalidArgument, "module path is empty")
	}

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		seg, err := normalizeSegment(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	// The last segment becomes a class name prefix; namespace parts may be keywords.
	if last := segments[len(segments)-1]; IsReservedWord(last) {
		return nil, errors.Newf(errors.CodeInvalidArgument, "module name %q is a reserved word and cannot name a class", last)
	}
	return segments, nil
}

// reservedWords are the PHP keywords and reserved type names that cannot be
// used as a class name.
var reservedWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		abstract and array as break callable case catch class clone const continue
		declare default do echo else elseif empty enddeclare endfor endforeach endif
		endswitch endwhile enum eval exit extends final finally fn for foreach function
		global goto if implements include include_once instanceof insteadof interface
		isset list match namespace new or print private protected public readonly
		require require_once return static switch throw trait try unset use var while
		xor yield
		bool false float int iterable mixed never null numeric object parent resource
		self string true void`) {
		reservedWords[w] = struct{}{}
	}
}

// IsReservedWord reports whether name, compared case-insensitively, is a PHP
// reserved word or reserved type name.
func IsReservedWord(name string) bool {
	_, ok := reservedWords[strings.ToLower(name)]
	return ok
}

func splitSegments(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func normalizeSegment(seg string) (string, error) {
	ascii := unidecode.Unidecode(seg)

	words := strings.FieldsFunc(ascii, func(r rune) bool {
		return r > 0x7f || !(isLetter(byte(r)) || isDigit(byte(r)))
	})

	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}

	out := b.String()
	if out == "" {
		return "", errors.Newf(errors.CodeInvalidArgument, "module path segment %q has no usable characters", seg)
	}
	if isDigit(out[0]) {
		return "", errors.Newf(errors.CodeInvalidArgument, "module path segment %q must not start with a digit", seg)
	}
	return out, nil
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
