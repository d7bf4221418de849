package catalog_test

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/klapacz/pg-error-codes/catalog"
)

func ExampleIndex_Classify() {
	cat, err := catalog.Parse([]byte("Section: Class 23 - Integrity Constraint Violation\n" +
		"23505    E    ERRCODE_UNIQUE_VIOLATION    unique_violation\n"))
	if err != nil {
		panic(err)
	}
	idx := catalog.NewIndex(cat)

	queryErr := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	if entry, ok := idx.Classify(queryErr); ok {
		fmt.Println(entry.Constant, entry.Severity.Name(), entry.Description)
	}
	// Output: UNIQUE_VIOLATION error Class 23 - Integrity Constraint Violation
}

func ExampleParse() {
	cat, err := catalog.Parse([]byte("Section: Class 00 - Successful Completion\n" +
		"00000    S    ERRCODE_SUCCESSFUL_COMPLETION    successful_completion\n" +
		"BAD LINE HERE\n"))
	fmt.Println(cat == nil, err)
	// Output: true line 3: unrecognized catalog line "BAD LINE HERE"
}
