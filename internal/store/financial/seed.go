package financial

import (
	"context"
	"fmt"
)

// Statements run in order; drops come first so reseeding is idempotent.
// Unquoted identifiers fold to lowercase in PostgreSQL, so model-generated
// SQL may spell them in any case.
var seedStatements = []string{
	`DROP TABLE IF EXISTS holdings CASCADE;`,
	`DROP TABLE IF EXISTS clients CASCADE;`,
	`DROP TABLE IF EXISTS relationship_managers CASCADE;`,

	`CREATE TABLE relationship_managers (
		rmId VARCHAR PRIMARY KEY,
		rmName VARCHAR NOT NULL,
		region VARCHAR
	);`,

	`CREATE TABLE clients (
		clientId VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		rmId VARCHAR,
		FOREIGN KEY (rmId) REFERENCES relationship_managers(rmId)
	);`,

	`CREATE TABLE holdings (
		holdingId SERIAL PRIMARY KEY,
		clientId VARCHAR,
		stockSymbol VARCHAR,
		quantity INT,
		currentValue DECIMAL,
		FOREIGN KEY (clientId) REFERENCES clients(clientId)
	);`,

	`INSERT INTO relationship_managers (rmId, rmName, region) VALUES
		('RM01', 'Anjali Sharma', 'Mumbai'),
		('RM02', 'Vikram Singh', 'Delhi');`,

	`INSERT INTO clients (clientId, name, rmId) VALUES
		('C101', 'Shah Rukh Khan', 'RM01'),
		('C102', 'Virat Kohli', 'RM02'),
		('C103', 'Priyanka Chopra', 'RM01');`,

	`INSERT INTO holdings (clientId, stockSymbol, quantity, currentValue) VALUES
		('C101', 'RELIANCE', 1000, 2850000.00),
		('C101', 'TCS', 500, 1900000.00),
		('C102', 'HDFCBANK', 2000, 3100000.00),
		('C102', 'INFY', 800, 1200000.00),
		('C103', 'RELIANCE', 1500, 4275000.00),
		('C103', 'WIPRO', 3000, 1410000.00);`,
}

// Seed rebuilds the financial tables with the demo dataset.
func (s *Store) Seed(ctx context.Context) error {
	for _, stmt := range seedStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("seeding financial data: %w", err)
		}
	}

	s.logger.Info("financial mock data seeded", map[string]interface{}{
		"tables": []string{"relationship_managers", "clients", "holdings"},
	})
	return nil
}
