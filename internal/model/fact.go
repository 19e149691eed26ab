package model

// Predicate is the leading identifier of a knowledge-base fact line.
type Predicate string

const (
	PredicateConcept Predicate = "concept" // concept(name, page, "definition").
	PredicateRelates Predicate = "relates" // relates(concept1, concept2, relation_type).
	PredicateExample Predicate = "example" // example(concept, page, "description").
	PredicateFormula Predicate = "formula" // formula(concept, page, "expression").
)

// KnownPredicates is the allow-list of predicates the validator accepts.
// Anything else in predicate position rejects the whole payload.
var KnownPredicates = map[string]bool{
	string(PredicateConcept): true,
	string(PredicateRelates): true,
	string(PredicateExample): true,
	string(PredicateFormula): true,
}

// RelationType categorizes the third argument of a relates/3 fact
type RelationType string

const (
	RelationRequires    RelationType = "requires"    // A requires B
	RelationIllustrates RelationType = "illustrates" // A exemplifies B
	RelationContrasts   RelationType = "contrasts"   // A opposes B
	RelationExtends     RelationType = "extends"     // A generalizes B
	RelationContains    RelationType = "contains"    // A includes B
)

// KnownRelationTypes lists the declared relation types in schema order.
// The structural validator does not enforce these on relates/3 arguments;
// they are declared in the knowledge-base preamble and in the extraction
// prompt only.
var KnownRelationTypes = []RelationType{
	RelationRequires,
	RelationIllustrates,
	RelationContrasts,
	RelationExtends,
	RelationContains,
}
