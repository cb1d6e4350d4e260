package repository

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightpath/institute-api/internal/model"
)

func TestBuildFilterActiveOnly(t *testing.T) {
	caller := bson.M{"category": "general"}
	got := buildFilter(ListQuery{ActiveOnly: true, Filter: caller})

	if got["active"] != true {
		t.Fatalf("active = %v, want true", got["active"])
	}
	if got["category"] != "general" {
		t.Fatalf("category = %v, want general", got["category"])
	}
	if _, ok := caller["active"]; ok {
		t.Fatal("buildFilter mutated the caller's filter")
	}
}

func TestBuildFilterAdminSeesEverything(t *testing.T) {
	got := buildFilter(ListQuery{})
	if len(got) != 0 {
		t.Fatalf("filter = %v, want empty", got)
	}
}

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := ParseID(oid.Hex())
	if err != nil || got != oid {
		t.Fatalf("ParseID(%q) = %v, %v", oid.Hex(), got, err)
	}

	if _, err := ParseID("not-an-id"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

func TestRegistrationFilter(t *testing.T) {
	examID := primitive.NewObjectID()
	f, err := registrationFilter(model.RegistrationFilter{
		ExamID:        examID.Hex(),
		PaymentStatus: model.PaymentPending,
		Search:        "a.b",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f["examId"] != examID {
		t.Errorf("examId = %v, want %v", f["examId"], examID)
	}
	if f["paymentStatus"] != model.PaymentPending {
		t.Errorf("paymentStatus = %v", f["paymentStatus"])
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 4 {
		t.Fatalf("$or = %#v, want 4 clauses", f["$or"])
	}
	rx := or[0].(bson.M)["name"].(primitive.Regex)
	if rx.Pattern != `a\.b` || rx.Options != "i" {
		t.Errorf("regex = %+v, want escaped case-insensitive pattern", rx)
	}

	if _, err := registrationFilter(model.RegistrationFilter{ExamID: "zzz"}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("err = %v, want ErrInvalidID", err)
	}
}
