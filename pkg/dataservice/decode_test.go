package dataservice

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListResponseAcceptsStringYears(t *testing.T) {
	var r ListResponse
	body := `{"allYears":["2019","2020",2021,""],"allIslands":["Guam"],"allMonths":["May"],"allDataSets":["fires_2022"]}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff([]int{2019, 2020, 2021}, r.AllYears); diff != "" {
		t.Fatalf("years (-want +got):\n%s", diff)
	}
}

func TestListResponseRejectsBadYear(t *testing.T) {
	var r ListResponse
	if err := json.Unmarshal([]byte(`{"allYears":["MMXX"]}`), &r); err == nil {
		t.Fatal("expected error for non-numeric year")
	}
}

func TestExistingResponseNumericID(t *testing.T) {
	for body, want := range map[string]string{
		`{"id_num":17,"map_data":"<html/>"}`:   "17",
		`{"id_num":"17","map_data":"<html/>"}`: "17",
		`{"id_num":null,"map_data":""}`:        "",
	} {
		var r ExistingResponse
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if r.SessionID != want {
			t.Fatalf("%s: session id = %q, want %q", body, r.SessionID, want)
		}
	}
}
