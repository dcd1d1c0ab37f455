package mining

import (
	"fmt"
	"sort"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// Rule is an association rule Antecedent => Consequent derived from one
// frequent itemset.
type Rule struct {
	Antecedent transactions.Itemset
	Consequent transactions.Itemset

	SupportCount int     // transactions containing Antecedent and Consequent
	Support      float64 // SupportCount / number of transactions
	Confidence   float64 // SupportCount / count(Antecedent)
	Lift         float64 // Confidence / support(Consequent), 0 if that support is 0
}

// Itemset returns the frequent itemset the rule was derived from.
func (r Rule) Itemset() transactions.Itemset {
	return r.Antecedent.Union(r.Consequent)
}

// String renders the rule as "{A} => {B}".
func (r Rule) String() string {
	return fmt.Sprintf("%s => %s", r.Antecedent, r.Consequent)
}

// DeriveRules produces every rule of confidence at least minConfidence from
// the frequent itemsets of size 2 and above in table. Support counts of
// antecedents and consequents are taken from db through a memoizing Counter.
//
// The table does not have to come from Mine: splits whose antecedent never
// occurs in db are skipped, and a consequent with zero support gives a lift
// of 0.
func DeriveRules(table *FrequentTable, db *transactions.Database, minConfidence float64) ([]Rule, error) {
	if err := ValidateMinConfidence(minConfidence); err != nil {
		return nil, err
	}
	return deriveRules(table, NewCounter(db), minConfidence), nil
}

func deriveRules(table *FrequentTable, counter *Counter, minConfidence float64) []Rule {
	n := counter.NumTransactions()
	rules := []Rule{}

	for _, k := range table.Sizes() {
		if k < 2 {
			continue
		}
		for _, rec := range table.levels[k] {
			items := rec.Itemset.Items()
			for size := 1; size < k; size++ {
				EachCombination(items, size, func(antecedent transactions.Itemset) bool {
					antecedentCount := counter.Count(antecedent)
					if antecedentCount == 0 {
						return true
					}

					confidence := float64(rec.Count) / float64(antecedentCount)
					if confidence < minConfidence {
						return true
					}

					consequent := rec.Itemset.Minus(antecedent)
					lift := 0.0
					if consequentSupport := counter.Support(consequent); consequentSupport > 0 {
						lift = confidence / consequentSupport
					}

					rules = append(rules, Rule{
						Antecedent:   antecedent,
						Consequent:   consequent,
						SupportCount: rec.Count,
						Support:      fraction(rec.Count, n),
						Confidence:   confidence,
						Lift:         lift,
					})
					return true
				})
			}
		}
	}

	SortRules(rules)
	return rules
}

// SortRules orders rules by descending confidence, then descending support,
// then canonical antecedent and consequent order.
func SortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		if c := a.Antecedent.Compare(b.Antecedent); c != 0 {
			return c < 0
		}
		return a.Consequent.Compare(b.Consequent) < 0
	})
}
