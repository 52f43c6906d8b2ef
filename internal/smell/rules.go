package smell

import (
	"regexp"
	"strings"

	"github.com/unbound-force/whiff/internal/taxonomy"
	"github.com/unbound-force/whiff/internal/textutil"
)

// Fixed thresholds.
const (
	// rouletteMinAsserts is the assertion count at which message-less
	// assertions become Assertion Roulette.
	rouletteMinAsserts = 4

	// fixtureMaxStatements is the setup size that makes a fixture
	// General.
	fixtureMaxStatements = 10

	// lazyMaxStatements and lazyMaxAsserts bound a Lazy Test.
	lazyMaxStatements = 2
	lazyMaxAsserts    = 1

	// eagerMinCalls is the non-assertion call count that makes a test
	// Eager.
	eagerMinCalls = 12
)

var (
	assertCall           = regexp.MustCompile(`\bassert\w*\s*\(`)
	qualifiedAssertCall  = regexp.MustCompile(`\bAssertions\.assert\w*\s*\(`)
	assertWithMsg        = regexp.MustCompile(`assert\w*\s*\([^;]*"[^"]+"[^;]*\);`)
	qualifiedAssertMsg   = regexp.MustCompile(`Assertions\.assert\w*\s*\([^;]*"[^"]+"[^;]*\);`)
	magicNumberAssert    = regexp.MustCompile(`\b(assert\w*|Assertions\.assert\w*)\s*\([^\)]*\b\d+\b[^\)]*\)`)
	floatEqualityAssert  = regexp.MustCompile(`\b(assertEquals|Assertions\.assertEquals)\s*\(\s*\d+\.\d+\s*,\s*[^,\)]+\)`)
	methodCall           = regexp.MustCompile(`\b\w+\s*\(`)
	testClassConstructor = regexp.MustCompile(`\bpublic\s+\w+Test\s*\([^)]*\)\s*\{\s*[^}]+\}`)

	// ternary matches "cond ? a : b". The '?' must follow an operand,
	// which keeps generic wildcards like List<?> out.
	ternary = regexp.MustCompile(`[\w)\]]\s*\?\s*[^;?:<>]+:`)
)

// Token sets. Matching is by literal substring.
var (
	disabledTokens = []string{"@Disabled"}

	externalResourceTokens = []string{
		"Files.", "Paths.", "FileInputStream", "FileOutputStream",
		"Socket", "URL(", "DriverManager", "Connection",
	}

	resourceReadTokens = []string{
		"Files.read", "Files.newInputStream", "new FileInputStream",
		"getResourceAsStream",
	}

	existenceCheckTokens = []string{
		".exists()", "Files.exists(", "Files.isReadable(",
		"Files.isRegularFile(", ".canRead()",
	}

	assertionTokens = []string{
		"assert", "Assertions.assert", "assertThrows", "fail(", "Assertions.fail",
	}

	sleepTokens = []string{
		"Thread.sleep", "TimeUnit.SECONDS.sleep", "TimeUnit.MILLISECONDS.sleep",
	}

	printTokens = []string{"System.out.print", "System.err.print"}

	branchTokens = []string{"if (", "for (", "while (", "switch (", "?:"}

	trivialAssertions = []string{
		"assertTrue(true)", "Assertions.assertTrue(true)",
		"assertFalse(false)", "Assertions.assertFalse(false)",
	}

	unimplementedTokens = []string{
		`fail("Not yet implemented`, "TODO", "throw new UnsupportedOperationException",
	}
)

// rule is one entry of the catalog: a label and a predicate over the
// text at the rule's scope.
type rule struct {
	label taxonomy.SmellLabel
	match func(text string) bool
}

// fileRules run once against the full source text.
var fileRules = []rule{
	{taxonomy.IgnoredTest, func(s string) bool {
		return textutil.ContainsAny(s, disabledTokens...)
	}},
	{taxonomy.ConstructorInitialization, testClassConstructor.MatchString},
	{taxonomy.MysteryGuest, func(s string) bool {
		return textutil.ContainsAny(s, externalResourceTokens...)
	}},
	{taxonomy.ResourceOptimism, readsWithoutExistenceCheck},
}

// fixtureRules run once against the @BeforeEach body.
var fixtureRules = []rule{
	{taxonomy.GeneralFixture, func(s string) bool {
		return Statements(s) >= fixtureMaxStatements
	}},
}

// testRules run once per test body, in this order.
var testRules = []rule{
	{taxonomy.EmptyTest, func(s string) bool {
		return textutil.Trim(s) == ""
	}},
	{taxonomy.UnknownTest, func(s string) bool {
		return !textutil.ContainsAny(s, assertionTokens...)
	}},
	{taxonomy.SleepyTest, func(s string) bool {
		return textutil.ContainsAny(s, sleepTokens...)
	}},
	{taxonomy.RedundantPrint, func(s string) bool {
		return textutil.ContainsAny(s, printTokens...)
	}},
	{taxonomy.ConditionalTestLogic, func(s string) bool {
		return textutil.ContainsAny(s, branchTokens...) || ternary.MatchString(s)
	}},
	{taxonomy.ExceptionHandling, func(s string) bool {
		return strings.Contains(s, "try {") && strings.Contains(s, "catch (")
	}},
	{taxonomy.AssertionRoulette, isAssertionRoulette},
	{taxonomy.DuplicateAssert, hasDuplicateAssertLines},
	{taxonomy.MagicNumberTest, magicNumberAssert.MatchString},
	{taxonomy.SensitiveEquality, floatEqualityAssert.MatchString},
	{taxonomy.RedundantAssertion, func(s string) bool {
		return textutil.ContainsAny(textutil.StripSpace(s), trivialAssertions...)
	}},
	{taxonomy.DefaultTest, func(s string) bool {
		return textutil.ContainsAny(s, unimplementedTokens...)
	}},
	{taxonomy.LazyTest, func(s string) bool {
		return Statements(s) <= lazyMaxStatements && Assertions(s) <= lazyMaxAsserts
	}},
	{taxonomy.EagerTest, func(s string) bool {
		return textutil.CountRegex(s, methodCall)-Assertions(s) >= eagerMinCalls
	}},
}

// Statements counts statement terminators.
func Statements(body string) int {
	return textutil.Count(body, ";")
}

// Assertions counts assertion calls. A qualified
// Assertions.assertX( call is counted by both patterns, so it
// weighs twice.
func Assertions(body string) int {
	return textutil.CountRegex(body, assertCall) + textutil.CountRegex(body, qualifiedAssertCall)
}

func isAssertionRoulette(body string) bool {
	if Assertions(body) < rouletteMinAsserts {
		return false
	}
	withMsg := textutil.CountRegex(body, assertWithMsg) + textutil.CountRegex(body, qualifiedAssertMsg)
	return withMsg == 0
}

func hasDuplicateAssertLines(body string) bool {
	seen := make(map[string]bool)
	for _, line := range textutil.Lines(body) {
		t := textutil.Trim(line)
		if !strings.HasPrefix(t, "assert") && !strings.HasPrefix(t, "Assertions.assert") {
			continue
		}
		if seen[t] {
			return true
		}
		seen[t] = true
	}
	return false
}

// readsWithoutExistenceCheck reports whether the first resource read
// in text is not preceded by an existence check. Order is purely
// positional.
func readsWithoutExistenceCheck(text string) bool {
	read := firstIndex(text, resourceReadTokens)
	if read < 0 {
		return false
	}
	check := firstIndex(text, existenceCheckTokens)
	return check < 0 || check > read
}

// firstIndex returns the smallest offset at which any of tokens
// occurs, or -1.
func firstIndex(s string, tokens []string) int {
	first := -1
	for _, tok := range tokens {
		if i := strings.Index(s, tok); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	return first
}
