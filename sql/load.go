package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed materials.sql
var materialsSQL string

// Function lists for verification
var MaterialsFunctions = []string{
	"init_materials",
	"insert_material",
	"select_material",
	"select_materials_by_similarity",
	"count_materials",
	"delete_material",
	"upsert_materials_scaler",
	"select_materials_scaler",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadMaterialsSql loads material-related SQL functions
func LoadMaterialsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, MaterialsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing materials functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(materialsSQL)
	if err != nil {
		return fmt.Errorf("error executing materials SQL: %w", err)
	}

	exist, err := checkFunctions(db, MaterialsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL materials functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	return LoadMaterialsSql(db, force)
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
