package tabletsync

import (
	"context"
	"testing"

	"hotels-sync/internal/tablets"
	"hotels-sync/internal/testkit"
)

func TestDirectory(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	tablet, err := tablets.Get(ctx, db, testkit.TabletID)
	if err != nil {
		t.Fatalf("get tablet: %v", err)
	}

	structures, err := s.Directory(ctx, tablet)
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if len(structures) != 1 {
		t.Fatalf("expected one structure, got %d", len(structures))
	}

	st, ok := structures["Hotel Miramare"]
	if !ok {
		t.Fatalf("missing structure, got %v", structures)
	}
	if st.Company.Name != "Muflone Hotels" || st.Brand.Name != "Seaside" {
		t.Fatalf("unexpected structure header %+v", st)
	}
	if st.Location.Address != "Via Marina 1" || st.Location.Region.Name != "Sicily" || st.Location.Country.Name != "Italy" {
		t.Fatalf("unexpected structure location %+v", st.Location)
	}

	// the extras building is not assigned to the tablet
	if len(st.Buildings) != 2 || st.Buildings[0].Building.Name != "Annex" || st.Buildings[1].Building.Name != "Main" {
		t.Fatalf("unexpected buildings %+v", st.Buildings)
	}
	main := st.Buildings[1]
	if main.Location.Name != "Milazzo" || main.Location.Address != "Via Marina 1" {
		t.Fatalf("expected the building located at its structure address, got %+v", main.Location)
	}
	if len(main.Rooms) != 2 || main.Rooms[0].Room.ID != testkit.RoomID || main.Rooms[0].RoomType != "Double" || main.Rooms[0].BedType != "King" {
		t.Fatalf("unexpected rooms %+v", main.Rooms)
	}
}

func TestContracts(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	tablet, err := tablets.Get(ctx, db, testkit.TabletID)
	if err != nil {
		t.Fatalf("get tablet: %v", err)
	}

	contracts, err := s.Contracts(ctx, tablet, testkit.Now)
	if err != nil {
		t.Fatalf("contracts: %v", err)
	}
	if len(contracts) != 2 {
		t.Fatalf("expected the contracts of buildings 1 and 2, got %+v", contracts)
	}

	current, ended := contracts[0], contracts[1]
	if current.Contract.ID != testkit.ContractID || !current.Contract.Active || current.Contract.End != nil {
		t.Fatalf("unexpected current contract %+v", current.Contract)
	}
	if current.Contract.Start != "2023-01-01" || current.Employee.LastName != "Rossi" || current.Type.Daily != 8 || current.Job.Name != "Housekeeper" {
		t.Fatalf("unexpected contract details %+v", current)
	}
	if len(current.Buildings) != 1 || current.Buildings[0] != 1 {
		t.Fatalf("unexpected contract buildings %v", current.Buildings)
	}

	if ended.Contract.ID != testkit.EndedContractID || ended.Contract.Active {
		t.Fatalf("unexpected ended contract %+v", ended.Contract)
	}
	if ended.Contract.End == nil || *ended.Contract.End != "2023-12-31" {
		t.Fatalf("expected the end date of the contract, got %v", ended.Contract.End)
	}
	if len(ended.Buildings) != 2 {
		t.Fatalf("expected every building of the contract, got %v", ended.Buildings)
	}
}
