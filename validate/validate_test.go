package validate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type listing struct {
	Title string           `json:"title" validate:"required"`
	Price *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Sort  string           `json:"sort" validate:"omitempty,oneof=newest oldest"`
	Code  string           `json:"code" validate:"omitempty,maxbytes=4"`
}

func TestCheck(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	zero := decimal.Zero

	tests := []struct {
		name  string
		val   listing
		field string
	}{
		{name: "ok", val: listing{Title: "lamp", Price: &zero}},
		{name: "missing title", val: listing{}, field: "title"},
		{name: "negative price", val: listing{Title: "lamp", Price: &neg}, field: "price"},
		{name: "unknown sort", val: listing{Title: "lamp", Sort: "cheapest"}, field: "sort"},
		{name: "four bytes", val: listing{Title: "lamp", Code: "éé"}},
		{name: "five bytes", val: listing{Title: "lamp", Code: "éé!"}, field: "code"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.val)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected a field error, got %v", err)
			}
			if fe.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%s)", tc.field, fe.Field, fe.Message)
			}
			if fe.Fields()["field"] != tc.field {
				t.Fatalf("unexpected fields %v", fe.Fields())
			}
		})
	}
}

func TestMaxBytesMessage(t *testing.T) {
	err := Check(listing{Title: "lamp", Code: "ééé"})

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected a field error, got %v", err)
	}
	if fe.Message != "code must be at most 4 bytes long" {
		t.Fatalf("unexpected message %q", fe.Message)
	}
}

func TestCheckID(t *testing.T) {
	if err := CheckID(GenerateID()); err != nil {
		t.Fatalf("generated id rejected: %v", err)
	}
	if err := CheckID("not-an-id"); err == nil {
		t.Fatal("malformed id accepted")
	}
}
