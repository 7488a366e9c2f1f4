// Package apitest provides an in-process Kusina backend for tests. It
// implements the REST surface the client consumes over an in-memory
// database, so client behavior can be exercised end to end without a
// deployed backend.
package apitest

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"golang.org/x/crypto/bcrypt"
)

type userRecord struct {
	gorm.Model
	Username string `gorm:"unique_index"`
	Password string // bcrypt hash
	Role     string
	Name     string
	Email    string
	Phone    string
}

type menuRecord struct {
	gorm.Model
	Name        string
	Price       float64
	Description string
	Category    string
	Grouping    string
	Image       string
	Featured    bool
	Rating      float64
}

type cartRecord struct {
	gorm.Model
	UserID              uint
	MenuID              uint
	Quantity            int
	Price               float64 // snapshot of the menu price at add time
	SpecialInstructions string
}

type orderRecord struct {
	gorm.Model
	CustomerID           uint
	Status               string
	PaymentMethod        string
	TotalAmount          float64
	RiderID              *uint
	CompletedAt          *time.Time
	FirstName            string
	LastName             string
	Phone                string
	Email                string
	Address              string
	DeliveryInstructions string
	Latitude             float64
	Longitude            float64
}

type orderItemRecord struct {
	gorm.Model
	OrderID             uint
	MenuID              uint
	Quantity            int
	Price               float64
	SpecialInstructions string
}

type riderRecord struct {
	gorm.Model
	Name      string
	Phone     string
	Vehicle   string
	Available bool
	Rating    float64
	Earnings  float64
}

// openStore opens an in-memory database and migrates the schema. SQLite is
// capped at one connection so every query sees the same memory database.
func openStore() (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}
	db.DB().SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userRecord{},
		&menuRecord{},
		&cartRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&riderRecord{},
	).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}
	return db, nil
}

// seed loads a small fixture set: one account per role, a handful of menu
// items and two riders.
func seed(db *gorm.DB) error {
	users := []userRecord{
		{Username: "admin", Role: "admin", Name: "Admin"},
		{Username: "staff", Role: "staff", Name: "Staff"},
		{Username: "rider", Role: "rider", Name: "Rider One", Phone: "0917-000-0001"},
		{Username: "customer", Role: "customer", Name: "Customer", Phone: "0917-000-0002"},
	}
	for i := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(users[i].Username+"-pass"), bcrypt.MinCost)
		if err != nil {
			return err
		}
		users[i].Password = string(hash)
		if err := db.Create(&users[i]).Error; err != nil {
			return err
		}
	}

	menu := []menuRecord{
		{Name: "Chicken Adobo", Price: 100, Description: "Classic braised chicken", Category: "Mains", Grouping: "Filipino", Featured: true, Rating: 4.8},
		{Name: "Pancit Canton", Price: 85, Description: "Stir-fried noodles", Category: "Mains", Grouping: "Filipino", Featured: true, Rating: 4.5},
		{Name: "Halo-Halo", Price: 120, Description: "Shaved ice dessert", Category: "Desserts", Grouping: "Filipino", Featured: false, Rating: 4.9},
		{Name: "Iced Tea", Price: 45, Description: "House-brewed", Category: "Drinks", Grouping: "Beverages", Featured: false, Rating: 4.2},
	}
	for i := range menu {
		if err := db.Create(&menu[i]).Error; err != nil {
			return err
		}
	}

	riders := []riderRecord{
		{Name: "Rider One", Phone: "0917-000-0001", Vehicle: "motorcycle", Available: true, Rating: 4.7},
		{Name: "Rider Two", Phone: "0917-000-0003", Vehicle: "bicycle", Available: true, Rating: 4.4},
	}
	for i := range riders {
		if err := db.Create(&riders[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
