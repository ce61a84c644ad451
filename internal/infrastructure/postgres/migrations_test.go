package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Consistencia esquema ↔ repositorios
//
// Los repositorios escriben listas de columnas fijas; estas pruebas verifican
// contra los archivos de migración que ninguna columna NOT NULL sin DEFAULT
// quede fuera del INSERT correspondiente (eso sería un 23502 en cada escritura
// contra una base recién migrada).
// ──────────────────────────────────────────────────────────────────────────────

func leerMigracion(t *testing.T, nombre string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("migrations", nombre))
	require.NoError(t, err, "migración %s debe existir", nombre)
	return string(data)
}

// columnasObligatorias extrae de un CREATE TABLE las columnas NOT NULL sin
// DEFAULT (las que todo INSERT está obligado a proveer).
func columnasObligatorias(t *testing.T, sql, tabla string) []string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + tabla + `\s*\((.*?)\n\);`)
	m := re.FindStringSubmatch(sql)
	require.NotNil(t, m, "la migración debe definir la tabla %s", tabla)

	var out []string
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "PRIMARY KEY") || strings.HasPrefix(upper, "CONSTRAINT") || strings.HasPrefix(upper, "CHECK") {
			continue
		}
		if !strings.Contains(upper, "NOT NULL") || strings.Contains(upper, "DEFAULT") {
			continue
		}
		out = append(out, strings.Fields(line)[0])
	}
	return out
}

// Las columnas obligatorias de ledger_entries deben estar todas en el INSERT
// de LedgerEntryRepo.Create (id, company_id, product_id, warehouse_id, delta,
// reason, created_at). La atribución de usuario no es parte del asiento.
func TestMigracionLedgerCoincideConInsert(t *testing.T) {
	sql := leerMigracion(t, "003_ledger.sql")
	insertadas := map[string]bool{
		"id": true, "company_id": true, "product_id": true,
		"warehouse_id": true, "delta": true, "reason": true, "created_at": true,
	}
	for _, col := range columnasObligatorias(t, sql, "ledger_entries") {
		assert.True(t, insertadas[col],
			"la columna obligatoria %q de ledger_entries no la provee el INSERT del repositorio", col)
	}
}

func TestMigracionStockLevelsCoincideConUpsert(t *testing.T) {
	sql := leerMigracion(t, "003_ledger.sql")
	insertadas := map[string]bool{
		"product_id": true, "warehouse_id": true, "quantity": true, "updated_at": true,
	}
	for _, col := range columnasObligatorias(t, sql, "stock_levels") {
		assert.True(t, insertadas[col],
			"la columna obligatoria %q de stock_levels no la provee el upsert del repositorio", col)
	}
}

// users.password_hash es el nombre que usan userColumns y el INSERT del
// repositorio; la migración debe declararla con ese mismo nombre.
func TestMigracionUsersUsaPasswordHash(t *testing.T) {
	sql := leerMigracion(t, "001_companies_users.sql")
	obligatorias := columnasObligatorias(t, sql, "users")
	assert.Contains(t, obligatorias, "password_hash")
	assert.NotContains(t, obligatorias, "password")

	for _, col := range strings.Split(userColumns, ", ") {
		if col == "id" {
			continue // PRIMARY KEY con DEFAULT, no aparece como obligatoria
		}
		assert.Contains(t, sql, col, "userColumns referencia %q, la migración debe definirla", col)
	}
}
