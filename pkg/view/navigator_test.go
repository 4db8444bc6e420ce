package view

import (
	"slices"
	"testing"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/flatten"
	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/service"
)

var ref = service.Ref

// platform flattens into:
//
//	root:    n1 gateway → n2 orders, n3 billing
//	n2:      group 0 [n4 validate → n5 persist(+group n6 wal)], group 1 [n7 audit]
func platform(t *testing.T) graph.Result {
	t.Helper()
	f := flatten.New(flatten.WithIDGenerator(flatten.Sequential("n")))
	res, _ := f.FlattenDocument(service.Document{
		Name: "platform",
		Entries: []service.Entry{
			{Name: "gateway", Output: ref("orders")},
			{Name: "orders", Children: []service.ChildGroup{
				{Childs: []service.Entry{
					{Name: "validate"},
					{Name: "persist", Input: ref("validate"), Children: []service.ChildGroup{
						{Childs: []service.Entry{{Name: "wal"}}},
					}},
				}},
				{Childs: []service.Entry{{Name: "audit"}}},
			}},
			{Name: "billing"},
		},
	})
	return res
}

func TestInitialState(t *testing.T) {
	nav := New(platform(t))

	if !nav.IsRoot() {
		t.Error("IsRoot() = false, want true")
	}
	if got := nav.Breadcrumbs(); !slices.Equal(got, []string{"platform"}) {
		t.Errorf("Breadcrumbs() = %v, want [platform]", got)
	}
	if _, ok := nav.Selected(); ok {
		t.Error("nothing should be selected")
	}
	if got := len(nav.CurrentView().Nodes); got != 3 {
		t.Errorf("root nodes = %d, want 3", got)
	}
}

func TestSelectNodeDrillsIntoFirstGroup(t *testing.T) {
	nav := New(platform(t))

	outcome, err := nav.SelectNode("n2")
	if err != nil || outcome != OutcomeDrilled {
		t.Fatalf("SelectNode(orders) = %v, %v, want drilled", outcome, err)
	}
	if got := nav.Breadcrumbs(); !slices.Equal(got, []string{"platform", "orders"}) {
		t.Errorf("Breadcrumbs() = %v", got)
	}
	if got := nav.CurrentView().NodeIDs(); !slices.Equal(got, []string{"n4", "n5"}) {
		t.Errorf("view nodes = %v, want [n4 n5]", got)
	}
	if len(nav.Groups()) != 2 || nav.GroupIndex() != 0 {
		t.Errorf("groups = %d index %d, want 2/0", len(nav.Groups()), nav.GroupIndex())
	}
}

func TestSelectLeafAtRootIsNoop(t *testing.T) {
	nav := New(platform(t))
	outcome, err := nav.SelectNode("n3")
	if err != nil || outcome != OutcomeNone {
		t.Fatalf("SelectNode(billing) = %v, %v, want none", outcome, err)
	}
	if _, ok := nav.Selected(); ok {
		t.Error("leaf at root should not become selected")
	}
	if len(nav.Breadcrumbs()) != 1 {
		t.Error("trail should be unchanged")
	}
}

func TestSelectLeafBelowRoot(t *testing.T) {
	nav := New(platform(t))
	_, _ = nav.SelectNode("n2")

	outcome, err := nav.SelectNode("n4")
	if err != nil || outcome != OutcomeSelected {
		t.Fatalf("SelectNode(validate) = %v, %v, want selected", outcome, err)
	}
	if id, ok := nav.Selected(); !ok || id != "n4" {
		t.Errorf("Selected() = %q, %v", id, ok)
	}

	d, ok := nav.Detail()
	if !ok {
		t.Fatal("Detail() missing")
	}
	if d.Node.Label != "validate" || len(d.Inputs) != 0 || len(d.Outputs) != 1 || d.Outputs[0].Label != "persist" {
		t.Errorf("Detail() = %+v", d)
	}
}

func TestDrillTwiceClearsSelection(t *testing.T) {
	nav := New(platform(t))
	_, _ = nav.SelectNode("n2")
	_, _ = nav.SelectNode("n4")

	outcome, _ := nav.SelectNode("n5")
	if outcome != OutcomeDrilled {
		t.Fatalf("SelectNode(persist) = %v, want drilled", outcome)
	}
	if _, ok := nav.Selected(); ok {
		t.Error("selection should be cleared after drilling")
	}
	if got := nav.Breadcrumbs(); !slices.Equal(got, []string{"platform", "orders", "persist"}) {
		t.Errorf("Breadcrumbs() = %v", got)
	}
}

func TestSelectNodeUnknown(t *testing.T) {
	nav := New(platform(t))
	if _, err := nav.SelectNode("nope"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("SelectNode(nope) error = %v, want NODE_NOT_FOUND", err)
	}
	if _, err := New().SelectNode("x"); err == nil {
		t.Error("SelectNode without a document should fail")
	}
}

func TestNavigateToBreadcrumb(t *testing.T) {
	nav := New(platform(t))
	_, _ = nav.SelectNode("n2")
	_, _ = nav.SelectNode("n5")
	_, _ = nav.SelectNode("n6")

	if err := nav.NavigateToBreadcrumb(1); err != nil {
		t.Fatalf("NavigateToBreadcrumb(1) error: %v", err)
	}
	if got := nav.Breadcrumbs(); !slices.Equal(got, []string{"platform", "orders"}) {
		t.Errorf("Breadcrumbs() = %v", got)
	}
	if _, ok := nav.Selected(); ok {
		t.Error("selection should be cleared")
	}
	if got := nav.CurrentView().NodeIDs(); !slices.Equal(got, []string{"n4", "n5"}) {
		t.Errorf("view nodes = %v", got)
	}

	if err := nav.NavigateToBreadcrumb(0); err != nil {
		t.Fatal(err)
	}
	if !nav.IsRoot() || len(nav.CurrentView().Nodes) != 3 {
		t.Error("index 0 should restore the root view")
	}

	for _, bad := range []int{-1, 1, 5} {
		if err := nav.NavigateToBreadcrumb(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("NavigateToBreadcrumb(%d) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestSelectGroup(t *testing.T) {
	nav := New(platform(t))
	if err := nav.SelectGroup(0); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("SelectGroup at root error = %v, want UNSUPPORTED", err)
	}

	_, _ = nav.SelectNode("n2")
	_, _ = nav.SelectNode("n4")
	if err := nav.SelectGroup(1); err != nil {
		t.Fatalf("SelectGroup(1) error: %v", err)
	}
	if got := nav.CurrentView().NodeIDs(); !slices.Equal(got, []string{"n7"}) {
		t.Errorf("group 1 nodes = %v, want [n7]", got)
	}
	if len(nav.Breadcrumbs()) != 2 || nav.GroupIndex() != 1 {
		t.Error("SelectGroup should keep the trail length")
	}
	if _, ok := nav.Selected(); ok {
		t.Error("SelectGroup should clear the selection")
	}
	if err := nav.SelectGroup(2); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SelectGroup(2) error = %v, want INVALID_INPUT", err)
	}
}

func TestBack(t *testing.T) {
	nav := New(platform(t))
	if nav.Back() {
		t.Error("Back() at root should report false")
	}
	_, _ = nav.SelectNode("n2")
	if !nav.Back() || !nav.IsRoot() {
		t.Error("Back() should return to the root")
	}
}

func TestSearchFilter(t *testing.T) {
	docs := []graph.Result{{Document: "Payments"}, {Document: "orders-prod"}, {Document: "orders-staging"}}
	nav := New(docs...)

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"Payments", "orders-prod", "orders-staging"}},
		{"ORDERS", []string{"orders-prod", "orders-staging"}},
		{"pay", []string{"Payments"}},
		{"prod", []string{"orders-prod"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		nav.SetSearchFilter(tt.filter)
		if got := nav.Documents(); !slices.Equal(got, tt.want) {
			t.Errorf("filter %q: Documents() = %v, want %v", tt.filter, got, tt.want)
		}
	}
	if nav.Document() != "Payments" {
		t.Error("filtering should not change the open document")
	}
}

func TestOpenDocument(t *testing.T) {
	nav := New(platform(t), graph.Result{Document: "other"})
	_, _ = nav.SelectNode("n2")

	if err := nav.OpenDocument("other"); err != nil {
		t.Fatalf("OpenDocument() error: %v", err)
	}
	if nav.Document() != "other" || !nav.IsRoot() {
		t.Error("OpenDocument should reset to the new root")
	}
	if err := nav.OpenDocument("missing"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("OpenDocument(missing) error = %v", err)
	}
}

func TestCurrentViewIsACopy(t *testing.T) {
	nav := New(platform(t))
	v := nav.CurrentView()
	v.Nodes[0].Label = "mutated"
	if nav.CurrentView().Nodes[0].Label == "mutated" {
		t.Error("CurrentView() exposes internal state")
	}
}

func TestDecodedResultFallsBackToIndex(t *testing.T) {
	data, err := graph.MarshalResult(platform(t))
	if err != nil {
		t.Fatal(err)
	}
	res, err := graph.UnmarshalResult(data)
	if err != nil {
		t.Fatal(err)
	}
	nav := New(res)
	if outcome, _ := nav.SelectNode("n2"); outcome != OutcomeDrilled {
		t.Errorf("decoded result: SelectNode(orders) = %v, want drilled", outcome)
	}
}
