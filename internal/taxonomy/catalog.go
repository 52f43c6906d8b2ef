package taxonomy

// Catalog returns every smell label in evaluation order: file scope
// first, then fixture scope, then test scope in rule order.
func Catalog() []SmellLabel {
	out := make([]SmellLabel, len(catalog))
	copy(out, catalog)
	return out
}

// ScopeOf returns the evaluation scope for a label.
func ScopeOf(l SmellLabel) Scope {
	scope, ok := scopeMap[l]
	if !ok {
		return ScopeTest // unknown labels are treated as per-test
	}
	return scope
}

var catalog = []SmellLabel{
	IgnoredTest,
	ConstructorInitialization,
	MysteryGuest,
	ResourceOptimism,
	GeneralFixture,
	EmptyTest,
	UnknownTest,
	SleepyTest,
	RedundantPrint,
	ConditionalTestLogic,
	ExceptionHandling,
	AssertionRoulette,
	DuplicateAssert,
	MagicNumberTest,
	SensitiveEquality,
	RedundantAssertion,
	DefaultTest,
	LazyTest,
	EagerTest,
}

var scopeMap = map[SmellLabel]Scope{
	IgnoredTest:               ScopeFile,
	ConstructorInitialization: ScopeFile,
	MysteryGuest:              ScopeFile,
	ResourceOptimism:          ScopeFile,

	GeneralFixture: ScopeFixture,

	EmptyTest:            ScopeTest,
	UnknownTest:          ScopeTest,
	SleepyTest:           ScopeTest,
	RedundantPrint:       ScopeTest,
	ConditionalTestLogic: ScopeTest,
	ExceptionHandling:    ScopeTest,
	AssertionRoulette:    ScopeTest,
	DuplicateAssert:      ScopeTest,
	MagicNumberTest:      ScopeTest,
	SensitiveEquality:    ScopeTest,
	RedundantAssertion:   ScopeTest,
	DefaultTest:          ScopeTest,
	LazyTest:             ScopeTest,
	EagerTest:            ScopeTest,
}
