package compare

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/abhisek/sqltutor/internal/sqldb"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func rs(cols []string, rows ...[]any) *sqldb.ResultSet {
	return &sqldb.ResultSet{Columns: cols, Rows: rows}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		learner  *sqldb.ResultSet
		expected *sqldb.ResultSet
		ordered  bool
		want     bool
	}{
		{
			name:     "identical",
			learner:  rs([]string{"name"}, []any{"Carol"}, []any{"Frank"}),
			expected: rs([]string{"name"}, []any{"Carol"}, []any{"Frank"}),
			want:     true,
		},
		{
			name:     "row order ignored",
			learner:  rs([]string{"name"}, []any{"Frank"}, []any{"Carol"}),
			expected: rs([]string{"name"}, []any{"Carol"}, []any{"Frank"}),
			want:     true,
		},
		{
			name:     "row order enforced",
			learner:  rs([]string{"name"}, []any{"Frank"}, []any{"Carol"}),
			expected: rs([]string{"name"}, []any{"Carol"}, []any{"Frank"}),
			ordered:  true,
			want:     false,
		},
		{
			name:     "duplicate rows count",
			learner:  rs([]string{"c"}, []any{"USA"}, []any{"USA"}, []any{"UK"}),
			expected: rs([]string{"c"}, []any{"USA"}, []any{"UK"}, []any{"UK"}),
			want:     false,
		},
		{
			name:     "columns reordered by name",
			learner:  rs([]string{"City", "NAME"}, []any{"Toronto", "Carol"}),
			expected: rs([]string{"name", "city"}, []any{"Carol", "Toronto"}),
			want:     true,
		},
		{
			name:     "unaliased aggregate matches alias positionally",
			learner:  rs([]string{"COUNT(*)"}, []any{int64(2)}),
			expected: rs([]string{"total"}, []any{int64(2)}),
			want:     true,
		},
		{
			name:     "extra column",
			learner:  rs([]string{"name", "email"}, []any{"Carol", "c@x"}),
			expected: rs([]string{"name"}, []any{"Carol"}),
			want:     false,
		},
		{
			name:     "int float and numeric string",
			learner:  rs([]string{"v"}, []any{int64(3)}, []any{"29.99"}, []any{0.1 + 0.2}),
			expected: rs([]string{"v"}, []any{3.0}, []any{29.99}, []any{"0.3"}),
			want:     true,
		},
		{
			name:     "float rounding at nine digits",
			learner:  rs([]string{"avg"}, []any{4.333333333333333}),
			expected: rs([]string{"avg"}, []any{4.3333333334}),
			want:     true,
		},
		{
			name:     "float differs beyond rounding",
			learner:  rs([]string{"avg"}, []any{4.33}),
			expected: rs([]string{"avg"}, []any{4.34}),
			want:     false,
		},
		{
			name:     "null is not empty string",
			learner:  rs([]string{"comment"}, []any{nil}),
			expected: rs([]string{"comment"}, []any{""}),
			want:     false,
		},
		{
			name:     "null matches null",
			learner:  rs([]string{"comment"}, []any{nil}),
			expected: rs([]string{"comment"}, []any{nil}),
			want:     true,
		},
		{
			name:     "bytes match string",
			learner:  rs([]string{"s"}, []any{[]byte("shipped")}),
			expected: rs([]string{"s"}, []any{"shipped"}),
			want:     true,
		},
		{
			name:     "bool as integer",
			learner:  rs([]string{"in_stock"}, []any{true}),
			expected: rs([]string{"in_stock"}, []any{int64(1)}),
			want:     true,
		},
		{
			name:     "date string is not a number",
			learner:  rs([]string{"d"}, []any{"2024-01-05"}),
			expected: rs([]string{"d"}, []any{"2024-1-5"}),
			want:     false,
		},
		{
			name:     "empty results with same columns",
			learner:  rs([]string{"name"}),
			expected: rs([]string{"name"}),
			want:     true,
		},
		{
			name:     "nil learner",
			learner:  nil,
			expected: rs([]string{"name"}),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.learner, tt.expected, tt.ordered); got != tt.want {
				t.Fatalf("Equal() = %v, want %v", got, tt.want)
			}
			if got := Equal(tt.expected, tt.learner, tt.ordered); got != tt.want {
				t.Fatalf("Equal() not symmetric: swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareReason(t *testing.T) {
	got := []string{
		Compare(rs([]string{"a", "b"}), rs([]string{"a"}), false).Reason,
		Compare(rs([]string{"a"}, []any{1}), rs([]string{"a"}), false).Reason,
		Compare(rs([]string{"a"}, []any{1}, []any{2}), rs([]string{"a"}, []any{2}, []any{1}), true).Reason,
		Compare(rs([]string{"a"}, []any{1}), rs([]string{"a"}, []any{2}), false).Reason,
		Compare(rs([]string{"a"}, []any{1}), rs([]string{"a"}, []any{1}), false).Reason,
	}
	want := []string{
		"expected 1 columns, got 2",
		"expected 0 rows, got 1",
		"rows are correct but in the wrong order",
		"row values differ",
		"",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reasons mismatch (-want +got):\n%s", diff)
	}
}

// TestEqualSymmetryProperty checks symmetry over many generated pairs,
// including permuted columns, shuffled rows and perturbed values.
func TestEqualSymmetryProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	values := []any{nil, int64(1), 1.0, "1", "Carol", []byte("Carol"), 2.5, "2.50", true, int64(0), ""}
	names := []string{"id", "ID", "name", "total", "COUNT(*)"}

	gen := func() *sqldb.ResultSet {
		ncols := 1 + rng.IntN(3)
		cols := make([]string, ncols)
		for i := range cols {
			cols[i] = names[rng.IntN(len(names))]
		}
		rows := make([][]any, rng.IntN(4))
		for i := range rows {
			row := make([]any, ncols)
			for j := range row {
				row[j] = values[rng.IntN(len(values))]
			}
			rows[i] = row
		}
		return &sqldb.ResultSet{Columns: cols, Rows: rows}
	}

	shuffle := func(r *sqldb.ResultSet) *sqldb.ResultSet {
		out := &sqldb.ResultSet{Columns: r.Columns, Rows: append([][]any(nil), r.Rows...)}
		rng.Shuffle(len(out.Rows), func(i, j int) { out.Rows[i], out.Rows[j] = out.Rows[j], out.Rows[i] })
		return out
	}

	for i := range 2000 {
		a := gen()
		var b *sqldb.ResultSet
		switch i % 3 {
		case 0:
			b = gen()
		case 1:
			b = shuffle(a)
		default:
			b = shuffle(a)
			if len(b.Rows) > 0 {
				b.Rows[0] = append([]any(nil), b.Rows[0]...)
				b.Rows[0][0] = values[rng.IntN(len(values))]
			}
		}
		for _, ordered := range []bool{false, true} {
			if Equal(a, b, ordered) != Equal(b, a, ordered) {
				t.Fatalf("asymmetric (ordered=%v):\na=%v\nb=%v", ordered, a, b)
			}
		}
		if !Equal(a, a, true) {
			t.Fatalf("not reflexive: %v", a)
		}
	}
}

func TestNormalize(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 0, 0, 0, time.FixedZone("X", 3600))
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{int64(42), "n:42"},
		{42.0, "n:42"},
		{"42", "n:42"},
		{" 42 ", "n:42"},
		{"1e3", "n:1000"},
		{"007", "n:7"},
		{0.1 + 0.2, "n:0.3"},
		{float32(1.5), "n:1.5"},
		{-0.0, "n:0"},
		{"NaN", "s:NaN"},
		{"0x10", "s:0x10"},
		{"Toronto", "s:Toronto"},
		{[]byte("abc"), "s:abc"},
		{false, "n:0"},
		{ts, "s:2024-03-15T09:00:00Z"},
		{uint8(9), "n:9"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrderSensitive(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT name FROM products ORDER BY price DESC", true},
		{"select name from products order   by price;", true},
		{"SELECT name FROM products ORDER\n\tBY price", true},
		{"SELECT name FROM products", false},
		{"SELECT name FROM products WHERE name = 'ORDER BY'", false},
		{`SELECT "order by" FROM t`, false},
		{"SELECT name FROM products -- ORDER BY price\n", false},
		{"SELECT name FROM products /* ORDER BY price */", false},
		{"SELECT * FROM (SELECT name FROM products ORDER BY price LIMIT 3)", false},
		{"SELECT name, RANK() OVER (ORDER BY price DESC) FROM products", false},
		{"WITH top AS (SELECT * FROM products ORDER BY price) SELECT * FROM top", false},
		{"WITH top AS (SELECT * FROM products) SELECT * FROM top ORDER BY price", true},
		{"SELECT name FROM customers UNION SELECT name FROM products ORDER BY 1", true},
		{"SELECT 'it''s' AS x FROM t ORDER BY x", true},
		{"SELECT [order] FROM t", false},
		{"SELECT sort_order, by_value FROM t", false},
		{"SELECT x FROM t ORDER /* c */ BY x", true},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			if got := OrderSensitive(tt.sql); got != tt.want {
				t.Fatalf("OrderSensitive(%q) = %v, want %v", tt.sql, got, tt.want)
			}
		})
	}
}
