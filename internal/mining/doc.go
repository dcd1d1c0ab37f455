// Package mining implements exhaustive frequent itemset mining and
// association rule derivation over a transactions.Database.
//
// The pipeline has three stages, each returning a fresh immutable value:
//
//   - Mine enumerates every k-itemset of the item universe for k = 1, 2, ...
//     and counts its support with a linear scan, stopping at the first size
//     with no frequent itemset. No candidate is ever pruned.
//   - DeriveRules splits every frequent itemset of size 2 or more into
//     antecedent and consequent and keeps the rules that meet the minimum
//     confidence, ranked by confidence then support.
//   - A Reporter presents the combined Result.
//
// Example usage:
//
//	db, err := transactions.LoadCSVFile("Walmart_transactions.csv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := mining.Run(db, mining.Thresholds{MinSupport: 0.2, MinConfidence: 0.6})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.TotalItemsets(), res.RuleCount())
package mining
