package sql

import "database/sql"

// GetTxFromCatalogRepo is a test helper to extract transaction from CatalogRepository.
func GetTxFromCatalogRepo(repo *CatalogRepository) *sql.Tx {
	return repo.txn
}

func ForeignKeyViolation(err error) (string, bool) {
	return foreignKeyViolation(err)
}
