// seed is a one-shot tool that installs a demo organization with an admin
// user, a product catalogue, and a few customers. Run it against a fresh
// database for local development.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"os"

	"stockbilling/internal/db"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Creating organization...")
	var orgID int
	err = tx.QueryRow(ctx, `
		INSERT INTO organizations (name, address, phone, mobile, email, gst_number, pan)
		VALUES ('Shree Ganesh Paper Mills',
		        'Plot 14, MIDC Industrial Area, Taloja, Navi Mumbai 410208',
		        '022-27411450', '9820012345', 'accounts@sgpapermills.example',
		        '27AABCS1234A1Z5', 'AABCS1234A')
		RETURNING id
	`).Scan(&orgID)
	if err != nil {
		log.Fatalf("Failed to create organization: %v", err)
	}

	log.Println("Adding bank accounts...")
	_, err = tx.Exec(ctx, `
		INSERT INTO organization_banks (organization_id, position, bank_name, branch, account_no, ifsc)
		VALUES
		($1, 1, 'Bank of Maharashtra', 'Taloja MIDC', '60123456789', 'MAHB0001234'),
		($1, 2, 'ICICI Bank', 'Kharghar', '002305012345', 'ICIC0000023')
	`, orgID)
	if err != nil {
		log.Fatalf("Failed to add bank accounts: %v", err)
	}

	log.Println("Creating admin user...")
	_, err = tx.Exec(ctx, `
		INSERT INTO users (organization_id, name, email, password_hash, role)
		VALUES ($1, 'Admin', 'admin@sgpapermills.example', $2, 'admin')
		ON CONFLICT (email) DO NOTHING
	`, orgID, string(hash))
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Println("Creating products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (organization_id, name, description, gsm, roll_no, reel_no, diameter, weight, quantity, price, unit, category)
		VALUES
		($1, 'Kraft Paper 120gsm',   'Brown kraft, high burst factor', 120, 'R-101', 'RL-9',  100, 450, 80,  52.00, 'kg', 'kraft'),
		($1, 'Kraft Paper 180gsm',   'Brown kraft, heavy duty',        180, 'R-102', 'RL-12', 105, 520, 45,  56.50, 'kg', 'kraft'),
		($1, 'Duplex Board 230gsm',  'Grey back duplex board',         230, 'R-205', 'RL-3',  90,  300, 60,  48.00, 'kg', 'duplex'),
		($1, 'Duplex Board 300gsm',  'White back duplex board',        300, 'R-206', 'RL-4',  92,  340, 25,  61.00, 'kg', 'duplex'),
		($1, 'Newsprint 45gsm',      'Standard newsprint',             45,  'R-310', 'RL-21', 80,  400, 8,   38.00, 'kg', 'newsprint')
	`, orgID)
	if err != nil {
		log.Fatalf("Failed to create products: %v", err)
	}

	log.Println("Creating customers...")
	_, err = tx.Exec(ctx, `
		INSERT INTO customers (organization_id, name, company_name, gst_number, email, phone, street, city, state, zip_code, country)
		VALUES
		($1, 'Sharma Traders',   'Sharma Trading Co',        '27BBBBB0000B1Z5', 'sharma@example.com',  '9811111111', '4 Market Lane',     'Mumbai', 'Maharashtra', '400001', 'India'),
		($1, 'Patel Packaging',  'Patel Packaging Pvt Ltd',  '24CCCCC0000C1Z3', 'patel@example.com',   '9822222222', '18 GIDC Estate',    'Surat',  'Gujarat',     '395010', 'India'),
		($1, 'Verma Print Works','Verma Print Works',        '',                'verma@example.com',   '9833333333', '7 Press Colony rd', 'Pune',   'Maharashtra', '411030', 'India')
	`, orgID)
	if err != nil {
		log.Fatalf("Failed to create customers: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit seed: %v", err)
	}

	log.Println("Seed complete. Login: admin@sgpapermills.example")
}
