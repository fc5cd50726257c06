package repository

import "testing"

func TestDialect_Rebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"sqlite untouched", DialectSQLite, "SELECT 1 WHERE a = ? AND b = ?", "SELECT 1 WHERE a = ? AND b = ?"},
		{"postgres numbered", DialectPostgres, "SELECT 1 WHERE a = ? AND b = ?", "SELECT 1 WHERE a = $1 AND b = $2"},
		{"postgres no params", DialectPostgres, "SELECT 1", "SELECT 1"},
		{"postgres many", DialectPostgres, "IN (?, ?, ?) LIMIT ? OFFSET ?", "IN ($1, $2, $3) LIMIT $4 OFFSET $5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.in); got != tt.want {
				t.Fatalf("Rebind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	if DialectFor("postgres") != DialectPostgres {
		t.Fatal("postgres should map to DialectPostgres")
	}
	if DialectFor("sqlite") != DialectSQLite {
		t.Fatal("sqlite should map to DialectSQLite")
	}
}

func TestPlaceholders(t *testing.T) {
	for n, want := range map[int]string{0: "", 1: "?", 3: "?, ?, ?"} {
		if got := placeholders(n); got != want {
			t.Fatalf("placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}
