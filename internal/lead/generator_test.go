package lead

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

var (
	cpfRe   = regexp.MustCompile(`^\d{11}$`)
	phoneRe = regexp.MustCompile(`^55\d{2}9\d{8}$`)
	emailRe = regexp.MustCompile(`^[\p{Ll}.]+\d{0,3}@email\.com$`)
)

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := New(NewRand(42), DefaultPools(), opts...)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return g
}

func TestGenerate(t *testing.T) {
	g := newTestGenerator(t)
	l := g.Generate()

	tests := []struct {
		name  string
		check func() bool
	}{
		{"name has two parts", func() bool { return len(strings.Fields(l.Name)) == 2 }},
		{"phone shape", func() bool { return phoneRe.MatchString(l.Phone) }},
		{"cpf shape", func() bool { return cpfRe.MatchString(l.CPF) }},
		{"email shape", func() bool { return emailRe.MatchString(l.Email) }},
		{"email from name", func() bool {
			local := strings.ToLower(strings.ReplaceAll(l.Name, " ", "."))
			return strings.HasPrefix(l.Email, local)
		}},
		{"tags within cap", func() bool { return len(l.TagList()) <= DefaultMaxTags }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check() {
				t.Errorf("check failed for lead: %+v", l)
			}
		})
	}
}

func TestGeneratedFieldProperties(t *testing.T) {
	g := newTestGenerator(t)

	for range 5000 {
		l := g.Generate()
		if !cpfRe.MatchString(l.CPF) {
			t.Fatalf("cpf %q does not match %s", l.CPF, cpfRe)
		}
		if !phoneRe.MatchString(l.Phone) {
			t.Fatalf("phone %q does not match %s", l.Phone, phoneRe)
		}
		if !emailRe.MatchString(l.Email) {
			t.Fatalf("email %q does not match %s", l.Email, emailRe)
		}
		if strings.ContainsAny(l.Email, " \t\n") {
			t.Fatalf("email %q contains whitespace", l.Email)
		}

		tags := l.TagList()
		if l.Tags == "" && tags != nil {
			t.Fatalf("empty tags field split into %v", tags)
		}
		if len(tags) > 5 {
			t.Fatalf("too many tags: %q", l.Tags)
		}
		seen := map[string]bool{}
		for _, tag := range tags {
			if seen[tag] {
				t.Fatalf("duplicate tag %q in %q", tag, l.Tags)
			}
			seen[tag] = true
		}
	}
}

func TestSameSeedSameLeads(t *testing.T) {
	a, _ := New(NewRand(7), DefaultPools())
	b, _ := New(NewRand(7), DefaultPools())

	for range 100 {
		la, lb := a.Generate(), b.Generate()
		if la != lb {
			t.Fatalf("same seed diverged: %+v vs %+v", la, lb)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a, _ := New(NewRand(1), DefaultPools())
	b, _ := New(NewRand(2), DefaultPools())

	different := false
	for range 10 {
		if a.Generate() != b.Generate() {
			different = true
			break
		}
	}
	if !different {
		t.Error("different seeds produced identical leads")
	}
}

func TestRandomIntBounds(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int64
	}{
		{"single value", 5, 5},
		{"small range", 0, 5},
		{"ddd range", 10, 99},
		{"cpf range", 0, maxCPF},
		{"negative", -3, 3},
	}

	g := newTestGenerator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 1000 {
				v := g.RandomInt(tt.lo, tt.hi)
				if v < tt.lo || v > tt.hi {
					t.Fatalf("RandomInt(%d, %d) = %d out of range", tt.lo, tt.hi, v)
				}
			}
		})
	}
}

func TestRandomIntCoversEnds(t *testing.T) {
	g := newTestGenerator(t)

	seen := map[int64]bool{}
	for range 2000 {
		seen[g.RandomInt(0, 5)] = true
	}
	for v := int64(0); v <= 5; v++ {
		if !seen[v] {
			t.Errorf("RandomInt(0, 5) never returned %d", v)
		}
	}
}

func TestRandomIntPanicsOnInvertedRange(t *testing.T) {
	g := newTestGenerator(t)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for lo > hi")
		}
	}()
	g.RandomInt(2, 1)
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix string
	}{
		{"simple", "Maria Costa", "maria.costa"},
		{"accent kept", "João Silva", "joão.silva"},
		{"whitespace run", "Ana   Lima", "ana.lima"},
		{"tab", "Ana\tLima", "ana.lima"},
		{"leading space", " Ana Lima", ".ana.lima"},
		{"trailing space", "Ana Lima ", "ana.lima."},
	}

	g := newTestGenerator(t)
	numRe := regexp.MustCompile(`^\d{1,3}$`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := g.Email(tt.input)
			local, domain, ok := strings.Cut(email, "@")
			if !ok || domain != "email.com" {
				t.Fatalf("Email(%q) = %q, want @email.com", tt.input, email)
			}
			if !strings.HasPrefix(local, tt.prefix) {
				t.Fatalf("Email(%q) = %q, want prefix %q", tt.input, email, tt.prefix)
			}
			if !numRe.MatchString(strings.TrimPrefix(local, tt.prefix)) {
				t.Errorf("Email(%q) = %q, want 1-3 digit suffix", tt.input, email)
			}
		})
	}
}

func TestEmailCustomDomain(t *testing.T) {
	g := newTestGenerator(t, WithEmailDomain("leads.test"))
	email := g.Email("Pedro Lima")
	if !strings.HasSuffix(email, "@leads.test") {
		t.Errorf("expected custom domain, got %q", email)
	}
}

func TestEmailEmptyDomainKeepsDefault(t *testing.T) {
	g := newTestGenerator(t, WithEmailDomain(""))
	if g.Domain() != defaultDomain {
		t.Errorf("domain = %q, want %q", g.Domain(), defaultDomain)
	}
}

func TestTagsCountDistribution(t *testing.T) {
	g := newTestGenerator(t)

	counts := map[int]int{}
	for range 3000 {
		counts[len(SplitTags(g.Tags()))]++
	}
	for n := 0; n <= 5; n++ {
		if counts[n] == 0 {
			t.Errorf("never produced %d tags", n)
		}
	}
	if counts[6] != 0 {
		t.Errorf("produced more than 5 tags")
	}
}

func TestTagsMaxEqualsPool(t *testing.T) {
	pools := DefaultPools()
	pools.Tags = []string{"a", "b", "c"}
	g, err := New(NewRand(3), pools, WithMaxTags(3))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	full := false
	for range 500 {
		if len(SplitTags(g.Tags())) == 3 {
			full = true
		}
	}
	if !full {
		t.Error("never drew the whole pool")
	}
}

func TestNewRejectsSmallTagPool(t *testing.T) {
	pools := DefaultPools()
	pools.Tags = []string{"a", "b"}

	_, err := New(NewRand(1), pools)
	if !errors.Is(err, ErrTagPoolTooSmall) {
		t.Fatalf("got %v, want ErrTagPoolTooSmall", err)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		pools func() Pools
		opts  []Option
	}{
		{"no first names", func() Pools { p := DefaultPools(); p.FirstNames = nil; return p }, nil},
		{"no last names", func() Pools { p := DefaultPools(); p.LastNames = []string{}; return p }, nil},
		{"duplicate tag", func() Pools { p := DefaultPools(); p.Tags = append(p.Tags, "vip"); return p }, nil},
		{"negative max tags", DefaultPools, []Option{WithMaxTags(-1)}},
		{"comma in last name", func() Pools { p := DefaultPools(); p.LastNames = []string{"Silva, Jr"}; return p }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(NewRand(1), tt.pools(), tt.opts...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewNilRand(t *testing.T) {
	if _, err := New(nil, DefaultPools()); err == nil {
		t.Error("expected error for nil source")
	}
}

func TestNoTagsWhenMaxZero(t *testing.T) {
	pools := DefaultPools()
	pools.Tags = nil
	g, err := New(NewRand(9), pools, WithMaxTags(0))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for range 100 {
		if tags := g.Tags(); tags != "" {
			t.Fatalf("got tags %q with max 0", tags)
		}
	}
}

func TestPoolsNotShared(t *testing.T) {
	pools := DefaultPools()
	g, err := New(NewRand(5), pools)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for i := range pools.FirstNames {
		pools.FirstNames[i] = "Mutated"
	}
	for range 50 {
		if strings.HasPrefix(g.Name(), "Mutated") {
			t.Fatal("generator saw caller mutation of pools")
		}
	}
}

func TestValidCPFOption(t *testing.T) {
	g := newTestGenerator(t, WithValidCPF())
	for range 1000 {
		cpf := g.CPF()
		if !ValidCPF(cpf) {
			t.Fatalf("CPF() = %q fails checksum", cpf)
		}
	}
}

func TestRealDDDOption(t *testing.T) {
	known := map[string]bool{}
	for _, d := range realDDDs {
		known[itoa2(d)] = true
	}

	g := newTestGenerator(t, WithRealDDD())
	for range 1000 {
		p := g.Phone()
		if !phoneRe.MatchString(p) {
			t.Fatalf("phone %q bad shape", p)
		}
		if !known[p[2:4]] {
			t.Fatalf("phone %q uses unknown DDD %s", p, p[2:4])
		}
	}
}

func TestLeadLine(t *testing.T) {
	l := Lead{
		Name:  "João Silva",
		Phone: "55419212345678",
		CPF:   "04829371650",
		Email: "joão.silva142@email.com",
		Tags:  "vip, novo",
	}
	want := "João Silva,55419212345678,04829371650,joão.silva142@email.com,vip, novo"
	if got := l.Line(); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}

	empty := Lead{Name: "Maria Costa", Phone: "p", CPF: "c", Email: "e"}
	if got := empty.Line(); !strings.HasSuffix(got, ",e,") {
		t.Errorf("empty tags should leave trailing comma, got %q", got)
	}
}

func TestHeaderLine(t *testing.T) {
	if got := strings.Join(Header, ","); got != HeaderLine {
		t.Errorf("Header joined = %q, want %q", got, HeaderLine)
	}
}

func itoa2(d int) string {
	return string([]byte{byte('0' + d/10), byte('0' + d%10)})
}
