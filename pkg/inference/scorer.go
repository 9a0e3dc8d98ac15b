package inference

import (
	"strings"

	"github.com/agext/levenshtein"
	"github.com/jinzhu/inflection"

	"github.com/relgraph/relgraph/pkg/models"
)

// Confidence bands. Exact matches score highest, with a bonus when the
// declared types agree as well. Pattern matches are scaled into the mid band
// from the name similarity, keeping them strictly below the exact band.
const (
	exactNameTypeScore = 0.98
	exactNameScore     = 0.95
	hierarchicalScore  = 0.90

	patternScoreFloor = 0.50
	patternScoreCeil  = 0.92
	minStemSimilarity = 0.60
)

var similarityParams = levenshtein.NewParams()

// genericColumnNames are pure identifiers with no entity stem. They never
// trigger inference as a source column but remain valid as targets (another
// table's primary key).
var genericColumnNames = map[string]bool{
	"id":          true,
	"name":        true,
	"status":      true,
	"type":        true,
	"code":        true,
	"key":         true,
	"value":       true,
	"label":       true,
	"description": true,
	"uuid":        true,
	"guid":        true,
}

// stemSuffixes are stripped from a column name to derive its entity stem,
// longest patterns first so "customer_id" yields "customer" not "customer_".
var stemSuffixes = []string{"_uuid", "_id", "_key", "_fk", "id"}

// hierarchicalNames are self-reference column names that do not follow the
// "parent" prefix/suffix pattern but conventionally point at the same table.
var hierarchicalNames = map[string]bool{
	"manager_id":    true,
	"supervisor_id": true,
	"reports_to":    true,
	"reports_to_id": true,
}

// Score evaluates a candidate (source column, candidate target table) pair
// and returns a confidence in [0, 1] plus the basis tag. The third return is
// false when the pair is not a candidate at all: the target has no primary
// key, the source name is generic, the coarse types differ, or a
// self-reference lacks a hierarchical name pattern.
//
// Score is pure and deterministic; identical inputs always yield identical
// results.
func Score(col models.Column, sourceTable string, target *models.Table) (float64, string, bool) {
	if target == nil || target.PrimaryKey == "" {
		return 0, "", false
	}
	pk := target.Column(target.PrimaryKey)
	if pk == nil {
		return 0, "", false
	}

	colName := strings.ToLower(col.Name)
	if genericColumnNames[colName] {
		return 0, "", false
	}

	// Type gate: a coarse type mismatch rejects the candidate regardless of
	// how well the names line up.
	if col.TypeClass != pk.TypeClass {
		return 0, "", false
	}

	stem := entityStem(colName)
	if stem == "" {
		return 0, "", false
	}

	if sourceTable == target.Name {
		if isHierarchicalName(colName) {
			return hierarchicalScore, models.BasisHierarchical, true
		}
		return 0, "", false
	}

	tableName := strings.ToLower(target.Name)
	singular := normalizeName(inflection.Singular(tableName))
	plural := normalizeName(inflection.Plural(tableName))
	tableNorm := normalizeName(tableName)

	// Exact tier: the stem names the target table (singular or plural) and
	// the column name equals the target's primary key name.
	if colName == strings.ToLower(pk.Name) &&
		(stem == singular || stem == plural || stem == tableNorm) {
		if declaredTypesMatch(col.DataType, pk.DataType) {
			return exactNameTypeScore, models.BasisExactMatch, true
		}
		return exactNameScore, models.BasisExactMatch, true
	}

	// Pattern tier: approximate match of the stem against the table name
	// forms or the primary key's own stem.
	sim := levenshtein.Similarity(stem, singular, similarityParams)
	if s := levenshtein.Similarity(stem, tableNorm, similarityParams); s > sim {
		sim = s
	}
	if pkStem := entityStem(strings.ToLower(pk.Name)); pkStem != "" {
		if s := levenshtein.Similarity(stem, pkStem, similarityParams); s > sim {
			sim = s
		}
	}
	if sim < minStemSimilarity {
		return 0, "", false
	}

	score := patternScoreFloor + (sim-minStemSimilarity)/(1-minStemSimilarity)*(patternScoreCeil-patternScoreFloor)
	if score > patternScoreCeil {
		score = patternScoreCeil
	}
	return score, models.BasisPatternMatch, true
}

// entityStem derives the entity a column refers to from its name: lower-case,
// strip one id-style suffix, drop separators. Returns "" when nothing remains
// (the name was a pure suffix like "id").
func entityStem(name string) string {
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	return normalizeName(name)
}

// normalizeName removes separators so "user_profiles" and "userprofiles"
// compare equal.
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return strings.Trim(name, " ")
}

// isHierarchicalName recognizes self-reference columns: parent-style names
// plus a few conventional org-hierarchy columns.
func isHierarchicalName(name string) bool {
	if hierarchicalNames[name] {
		return true
	}
	stem := entityStem(name)
	return strings.HasPrefix(stem, "parent") || strings.HasSuffix(stem, "parent")
}

// declaredTypesMatch compares declared types after stripping length and
// precision info, so "varchar(20)" matches "varchar(50)".
func declaredTypesMatch(a, b string) bool {
	return baseType(a) == baseType(b)
}

func baseType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if idx := strings.Index(t, "("); idx > 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}
