package reporting

import (
	"encoding/json"
	"testing"
)

func TestNumberAcceptsNumericForms(t *testing.T) {
	var row struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
		E Number `json:"e"`
	}
	if err := json.Unmarshal([]byte(`{"a":1.5,"b":" 2.25 ","c":"N/A","d":null,"e":"NaN"}`), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !row.A.Valid || row.A.Float() != 1.5 {
		t.Fatalf("unexpected a %+v", row.A)
	}
	if !row.B.Valid || row.B.Float() != 2.25 {
		t.Fatalf("unexpected b %+v", row.B)
	}
	if row.C.Valid || row.C.Raw != "N/A" || row.C.Float() != 0 {
		t.Fatalf("expected non-numeric string kept raw, got %+v", row.C)
	}
	if row.D.Valid || row.D.Display() != "-" {
		t.Fatalf("expected null to display '-', got %+v", row.D)
	}
	if row.E.Valid {
		t.Fatalf("expected NaN text to be invalid")
	}
	if got := row.B.Fixed(2); got != "2.25" {
		t.Fatalf("unexpected fixed %q", got)
	}
	if got := row.C.Fixed(2); got != "-" {
		t.Fatalf("expected '-' for invalid fixed, got %q", got)
	}
}

func TestTextKeepsNumericLiteral(t *testing.T) {
	var values []Text
	if err := json.Unmarshal([]byte(`[123,"123",null,true]`), &values); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if values[0].String() != values[1].String() {
		t.Fatalf("expected numeric and string ids to match: %q vs %q", values[0], values[1])
	}
	if values[2].Valid || values[2].Display() != "-" {
		t.Fatalf("expected null text invalid")
	}
	if values[3].String() != "true" {
		t.Fatalf("unexpected bool text %q", values[3])
	}
}

func TestTextRejectsObjects(t *testing.T) {
	var value Text
	if err := json.Unmarshal([]byte(`{"nested":1}`), &value); err == nil {
		t.Fatalf("expected error for object value")
	}
}

func TestListsAcceptOneOrMany(t *testing.T) {
	var row struct {
		Single StringList `json:"single"`
		Many   StringList `json:"many"`
		Bid    NumberList `json:"bid"`
		Bids   NumberList `json:"bids"`
	}
	payload := `{"single":"EXACT","many":["BROAD","PHRASE"],"bid":0.5,"bids":[0.5,"0.75"]}`
	if err := json.Unmarshal([]byte(payload), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if row.Single.Join() != "EXACT" || row.Many.Join() != "BROAD, PHRASE" {
		t.Fatalf("unexpected match types %v %v", row.Single, row.Many)
	}
	if row.Bid.Join() != "0.5" || row.Bids.Join() != "0.5, 0.75" {
		t.Fatalf("unexpected bids %v %v", row.Bid.Join(), row.Bids.Join())
	}
	var empty StringList
	if empty.Join() != "-" {
		t.Fatalf("expected '-' for empty list")
	}
}

func TestNumberRoundTripsThroughCache(t *testing.T) {
	in := []BrandTargetRow{{Brand: NewText("Acme"), DailySales: NewNumber(10.5), Target: ParseNumber("oops")}}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out []BrandTargetRow
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[0].Brand.String() != "Acme" || out[0].DailySales.Float() != 10.5 {
		t.Fatalf("unexpected round trip %+v", out[0])
	}
	if out[0].Target.Valid || out[0].Target.Raw != "oops" {
		t.Fatalf("expected invalid target preserved, got %+v", out[0].Target)
	}
	if out[0].PercentageAchieved.Valid {
		t.Fatalf("expected absent percentage to stay absent")
	}
}
