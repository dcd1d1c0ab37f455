// Package datagen generates the five deterministic retailer transaction
// databases used for demos and benchmarks.
package datagen

import (
	"crypto/md5"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// DefaultTransactions is the number of transactions generated per store.
const DefaultTransactions = 25

// Store describes one retailer: its item catalogue and the base baskets
// that transactions cycle through.
type Store struct {
	Name     string
	Category string
	Items    []string
	Patterns [][]string
}

var stores = []Store{
	{
		Name:     "Amazon",
		Category: "Technology & Electronics",
		Items: []string{
			"Laptop", "Mouse", "Keyboard", "Monitor", "Headphones",
			"USB_Cable", "Webcam", "External_HDD", "Phone_Charger",
			"HDMI_Cable", "Router", "RAM", "SSD", "Graphics_Card", "Microphone",
		},
		Patterns: [][]string{
			{"Laptop", "Mouse", "Keyboard"},
			{"Monitor", "HDMI_Cable"},
			{"Headphones", "USB_Cable"},
			{"External_HDD", "USB_Cable"},
			{"Router", "HDMI_Cable"},
			{"Laptop", "Mouse", "Keyboard", "Monitor"},
			{"RAM", "SSD"},
			{"Graphics_Card", "Monitor"},
			{"Webcam", "Microphone", "Headphones"},
			{"Phone_Charger", "USB_Cable"},
		},
	},
	{
		Name:     "BestBuy",
		Category: "Consumer Electronics",
		Items: []string{
			"TV", "Soundbar", "Gaming_Console", "Controller", "Smart_Watch",
			"Tablet", "Earbuds", "Phone_Case", "Screen_Protector", "Power_Bank",
			"Bluetooth_Speaker", "Drone", "Camera", "Tripod", "Memory_Card",
		},
		Patterns: [][]string{
			{"TV", "Soundbar", "HDMI_Cable"},
			{"Gaming_Console", "Controller", "TV"},
			{"Smart_Watch", "Phone_Case"},
			{"Tablet", "Screen_Protector", "Phone_Case"},
			{"Earbuds", "Phone_Case"},
			{"Camera", "Tripod", "Memory_Card"},
			{"Bluetooth_Speaker", "Power_Bank"},
			{"Drone", "Memory_Card"},
			{"Controller", "Gaming_Console"},
			{"Smart_Watch", "Earbuds"},
		},
	},
	{
		Name:     "Walmart",
		Category: "Groceries",
		Items: []string{
			"Milk", "Bread", "Eggs", "Butter", "Cheese", "Cereal", "Coffee",
			"Tea", "Sugar", "Flour", "Rice", "Pasta", "Tomato_Sauce",
			"Olive_Oil", "Salt", "Pepper", "Chicken", "Beef",
		},
		Patterns: [][]string{
			{"Milk", "Bread", "Eggs"},
			{"Butter", "Cheese", "Milk"},
			{"Cereal", "Milk"},
			{"Coffee", "Sugar"},
			{"Tea", "Sugar"},
			{"Flour", "Sugar", "Eggs"},
			{"Rice", "Chicken"},
			{"Pasta", "Tomato_Sauce", "Olive_Oil"},
			{"Bread", "Butter", "Eggs"},
			{"Chicken", "Beef", "Salt", "Pepper"},
		},
	},
	{
		Name:     "Target",
		Category: "Clothing & Fashion",
		Items: []string{
			"T_Shirt", "Jeans", "Sneakers", "Socks", "Jacket", "Hat",
			"Backpack", "Sunglasses", "Watch", "Belt", "Wallet", "Scarf",
			"Gloves", "Sweater", "Dress",
		},
		Patterns: [][]string{
			{"T_Shirt", "Jeans"},
			{"Sneakers", "Socks"},
			{"Jacket", "Hat", "Scarf"},
			{"Backpack", "Sunglasses"},
			{"Watch", "Belt", "Wallet"},
			{"T_Shirt", "Jeans", "Sneakers"},
			{"Gloves", "Scarf", "Hat"},
			{"Sweater", "Jeans"},
			{"Dress", "Sunglasses"},
			{"Belt", "Wallet"},
		},
	},
	{
		Name:     "Costco",
		Category: "Household Items",
		Items: []string{
			"Paper_Towels", "Toilet_Paper", "Detergent", "Dish_Soap",
			"Shampoo", "Toothpaste", "Trash_Bags", "Batteries",
			"Light_Bulbs", "Water_Bottles", "Snacks_Box", "Frozen_Pizza",
			"Rotisserie_Chicken", "Muffins", "Nuts_Pack",
		},
		Patterns: [][]string{
			{"Paper_Towels", "Toilet_Paper"},
			{"Detergent", "Dish_Soap"},
			{"Shampoo", "Toothpaste"},
			{"Trash_Bags", "Batteries"},
			{"Light_Bulbs", "Batteries"},
			{"Water_Bottles", "Snacks_Box"},
			{"Frozen_Pizza", "Snacks_Box"},
			{"Rotisserie_Chicken", "Muffins"},
			{"Nuts_Pack", "Water_Bottles"},
			{"Paper_Towels", "Toilet_Paper", "Detergent"},
		},
	},
}

// Stores returns the built-in retailers in their canonical order.
func Stores() []Store {
	out := make([]Store, len(stores))
	copy(out, stores)
	return out
}

// Lookup returns the built-in retailer with the given name.
func Lookup(name string) (Store, bool) {
	for _, s := range stores {
		if s.Name == name {
			return s, true
		}
	}
	return Store{}, false
}

// Generate builds n transactions for s. Transaction i starts from pattern
// i mod len(Patterns) and gains h mod 4 extra catalogue items, where h is
// the MD5 digest of "<name>_<i>" read as a big-endian integer; extra item j
// is Items[(h+j) mod len(Items)] unless already present.
func (s Store) Generate(n int) []transactions.Record {
	if len(s.Patterns) == 0 || len(s.Items) == 0 {
		return nil
	}

	records := make([]transactions.Record, 0, n)
	numItems := big.NewInt(int64(len(s.Items)))

	for i := 0; i < n; i++ {
		base := s.Patterns[i%len(s.Patterns)]
		basket := append([]string(nil), base...)

		sum := md5.Sum([]byte(fmt.Sprintf("%s_%d", s.Name, i)))
		h := new(big.Int).SetBytes(sum[:])
		extra := int(new(big.Int).Mod(h, big.NewInt(4)).Int64())

		for j := 0; j < extra; j++ {
			idx := new(big.Int).Add(h, big.NewInt(int64(j)))
			idx.Mod(idx, numItems)
			item := s.Items[idx.Int64()]
			if !contains(basket, item) {
				basket = append(basket, item)
			}
		}

		records = append(records, transactions.Record{
			ID:    fmt.Sprintf("T%03d", i+1),
			Items: basket,
		})
	}

	return records
}

// Database builds an in-memory database of n generated transactions.
func (s Store) Database(n int) *transactions.Database {
	return transactions.NewDatabase(s.Name, s.Generate(n))
}

// FileName returns the CSV file name used for the store.
func (s Store) FileName() string {
	return s.Name + "_transactions.csv"
}

// WriteCSV generates n transactions for s into dir and returns the file path.
func (s Store) WriteCSV(dir string, n int) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, s.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := transactions.WriteRecords(f, s.Generate(n)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, f.Close()
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
