package lead

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMaxTags is the largest number of tags attached to one lead.
const DefaultMaxTags = 5

const (
	maxCPF       = 99_999_999_999
	minSubscribe = 10_000_000
	maxSubscribe = 99_999_999
	maxEmailNum  = 999
	tagSeparator = ", "
)

// ErrTagPoolTooSmall is returned when the tag pool cannot supply MaxTags
// distinct tags. Tag selection rejects duplicates, so a short pool would
// never terminate.
var ErrTagPoolTooSmall = errors.New("tag pool smaller than max tags")

// Generator produces random leads. It is not safe for concurrent use.
type Generator struct {
	rnd      *rand.Rand
	pools    Pools
	domain   string
	maxTags  int
	validCPF bool
	realDDD  bool
	lower    cases.Caser
}

// Option configures a Generator.
type Option func(*Generator)

// WithEmailDomain sets the domain appended to generated emails.
func WithEmailDomain(domain string) Option {
	return func(g *Generator) {
		if domain != "" {
			g.domain = domain
		}
	}
}

// WithMaxTags caps the number of tags per lead.
func WithMaxTags(n int) Option {
	return func(g *Generator) { g.maxTags = n }
}

// WithValidCPF makes CPF produce numbers with correct check digits.
func WithValidCPF() Option {
	return func(g *Generator) { g.validCPF = true }
}

// WithRealDDD restricts phone area codes to ones in use.
func WithRealDDD() Option {
	return func(g *Generator) { g.realDDD = true }
}

// NewRand returns a seeded source for New.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// TimeSeed derives a seed from the wall clock.
func TimeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// New creates a generator drawing from pools with randomness from rnd.
func New(rnd *rand.Rand, pools Pools, opts ...Option) (*Generator, error) {
	if rnd == nil {
		return nil, errors.New("new generator: nil random source")
	}
	if err := pools.Validate(); err != nil {
		return nil, fmt.Errorf("new generator: %w", err)
	}

	g := &Generator{
		rnd:     rnd,
		pools:   pools.clone(),
		domain:  defaultDomain,
		maxTags: DefaultMaxTags,
		lower:   cases.Lower(language.Und),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.maxTags < 0 {
		return nil, fmt.Errorf("new generator: negative max tags %d", g.maxTags)
	}
	if g.maxTags > len(g.pools.Tags) {
		return nil, fmt.Errorf("new generator: %w (%d > %d)", ErrTagPoolTooSmall, g.maxTags, len(g.pools.Tags))
	}

	return g, nil
}

// Generate produces one lead.
func (g *Generator) Generate() Lead {
	name := g.Name()
	return Lead{
		Name:  name,
		Phone: g.Phone(),
		CPF:   g.CPF(),
		Email: g.Email(name),
		Tags:  g.Tags(),
	}
}

// RandomInt returns a uniform integer in [lo, hi]. It panics if lo > hi.
func (g *Generator) RandomInt(lo, hi int64) int64 {
	if lo > hi {
		panic(fmt.Sprintf("lead: RandomInt(%d, %d): lo > hi", lo, hi))
	}
	return lo + g.rnd.Int64N(hi-lo+1)
}

// Phone returns a Brazilian mobile number: 55, a two-digit area code,
// the mobile prefix 9 and an eight-digit subscriber number.
func (g *Generator) Phone() string {
	var ddd int64
	if g.realDDD {
		ddd = int64(realDDDs[g.rnd.IntN(len(realDDDs))])
	} else {
		ddd = g.RandomInt(10, 99)
	}
	sub := g.RandomInt(minSubscribe, maxSubscribe)

	b := make([]byte, 0, 13)
	b = append(b, "55"...)
	b = strconv.AppendInt(b, ddd, 10)
	b = append(b, '9')
	b = strconv.AppendInt(b, sub, 10)
	return string(b)
}

// CPF returns an 11-digit zero-padded national ID. Check digits are only
// correct when the generator was built WithValidCPF.
func (g *Generator) CPF() string {
	if g.validCPF {
		return g.checkedCPF()
	}
	return fmt.Sprintf("%011d", g.RandomInt(0, maxCPF))
}

func (g *Generator) checkedCPF() string {
	for {
		var base [9]int
		same := true
		for i := range base {
			base[i] = g.rnd.IntN(10)
			if base[i] != base[0] {
				same = false
			}
		}
		// all-equal bases produce numbers the importer rejects
		if same {
			continue
		}

		first, second := checkDigits(base)
		b := make([]byte, 11)
		for i, d := range base {
			b[i] = byte('0' + d)
		}
		b[9] = byte('0' + first)
		b[10] = byte('0' + second)
		return string(b)
	}
}

// Name returns a first and last name picked independently.
func (g *Generator) Name() string {
	return g.pick(g.pools.FirstNames) + " " + g.pick(g.pools.LastNames)
}

// Email derives an address from name: lowercased, whitespace runs
// replaced with dots, then a number in [0, 999] and the domain.
func (g *Generator) Email(name string) string {
	local := dotSpaces(g.lower.String(name))
	num := g.RandomInt(0, maxEmailNum)
	return local + strconv.FormatInt(num, 10) + "@" + g.domain
}

// dotSpaces replaces every run of whitespace in s with a single dot,
// leading and trailing runs included.
func dotSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('.')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Tags returns between zero and MaxTags distinct tags joined by ", ".
func (g *Generator) Tags() string {
	n := int(g.RandomInt(0, int64(g.maxTags)))
	if n == 0 {
		return ""
	}

	// New guarantees n <= len(pool), so this terminates
	picked := make([]string, 0, n)
	used := make(map[int]bool, n)
	for len(picked) < n {
		idx := g.rnd.IntN(len(g.pools.Tags))
		if used[idx] {
			continue
		}
		used[idx] = true
		picked = append(picked, g.pools.Tags[idx])
	}
	return strings.Join(picked, tagSeparator)
}

// MaxTags returns the configured tag cap.
func (g *Generator) MaxTags() int {
	return g.maxTags
}

// Domain returns the email domain in use.
func (g *Generator) Domain() string {
	return g.domain
}

func (g *Generator) pick(s []string) string {
	return s[g.rnd.IntN(len(s))]
}
