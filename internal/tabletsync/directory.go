package tabletsync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotels-sync/internal/models"
)

type NamedRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type LocationView struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Region  NamedRef `json:"region"`
	Country NamedRef `json:"country"`
}

type RoomView struct {
	Room     NamedRef `json:"room"`
	RoomType string   `json:"room_type"`
	BedType  string   `json:"bed_type"`
}

type BuildingView struct {
	Building NamedRef     `json:"building"`
	Location LocationView `json:"location"`
	Rooms    []RoomView   `json:"rooms"`
}

type StructureView struct {
	Structure NamedRef       `json:"structure"`
	Company   NamedRef       `json:"company"`
	Brand     NamedRef       `json:"brand"`
	Location  LocationView   `json:"location"`
	Buildings []BuildingView `json:"buildings"`
}

type ContractInfo struct {
	ID      uint      `json:"id"`
	Guid    uuid.UUID `json:"guid"`
	Start   string    `json:"start"`
	End     *string   `json:"end"`
	Enabled bool      `json:"enabled"`
	Active  bool      `json:"active"`
}

type EmployeeInfo struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Genre     string `json:"genre"`
}

type ContractTypeInfo struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Daily  uint   `json:"daily"`
	Weekly uint   `json:"weekly"`
}

type ContractView struct {
	Contract  ContractInfo     `json:"contract"`
	Employee  EmployeeInfo     `json:"employee"`
	Company   NamedRef         `json:"company"`
	Type      ContractTypeInfo `json:"type"`
	Job       NamedRef         `json:"job"`
	Buildings []uint           `json:"buildings"`
}

func tabletBuildings(db *gorm.DB, tablet *models.Tablet) *gorm.DB {
	return db.Table("work_tablet_buildings").Select("building_id").Where("tablet_id = ?", tablet.ID)
}

// Directory returns the buildings assigned to the tablet grouped by
// structure name.
func (s *Service) Directory(ctx context.Context, tablet *models.Tablet) (map[string]*StructureView, error) {
	buildings := make([]models.Building, 0)
	ret := s.DB.WithContext(ctx).
		Preload("Structure.Company").
		Preload("Structure.Brand").
		Preload("Structure.Location.Region.Country").
		Preload("Location.Region.Country").
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Rooms.RoomType").
		Preload("Rooms.BedType").
		Where("id IN (?)", tabletBuildings(s.DB, tablet)).
		Order("structure_id, name").
		Find(&buildings)
	if ret.Error != nil {
		return nil, ret.Error
	}

	structures := make(map[string]*StructureView)
	for _, b := range buildings {
		if b.Structure == nil {
			continue
		}
		view, ok := structures[b.Structure.Name]
		if !ok {
			view = newStructureView(b.Structure)
			structures[b.Structure.Name] = view
		}
		view.Buildings = append(view.Buildings, newBuildingView(&b, b.Structure.Address))
	}

	return structures, nil
}

func newLocationView(loc *models.Location, address string) LocationView {
	view := LocationView{Address: address}
	if loc == nil {
		return view
	}
	view.ID = loc.ID
	view.Name = loc.Name
	if loc.Region != nil {
		view.Region = NamedRef{ID: loc.Region.ID, Name: loc.Region.Name}
		if loc.Region.Country != nil {
			view.Country = NamedRef{ID: loc.Region.Country.ID, Name: loc.Region.Country.Name}
		}
	}
	return view
}

func newStructureView(st *models.Structure) *StructureView {
	view := &StructureView{
		Structure: NamedRef{ID: st.ID, Name: st.Name},
		Location:  newLocationView(st.Location, st.Address),
		Buildings: make([]BuildingView, 0),
	}
	if st.Company != nil {
		view.Company = NamedRef{ID: st.Company.ID, Name: st.Company.Name}
	}
	if st.Brand != nil {
		view.Brand = NamedRef{ID: st.Brand.ID, Name: st.Brand.Name}
	}
	return view
}

// newBuildingView locates a building at the address of its structure,
// which is what tablets print on their forms.
func newBuildingView(b *models.Building, address string) BuildingView {
	view := BuildingView{
		Building: NamedRef{ID: b.ID, Name: b.Name},
		Location: newLocationView(b.Location, address),
		Rooms:    make([]RoomView, 0, len(b.Rooms)),
	}
	for _, r := range b.Rooms {
		room := RoomView{Room: NamedRef{ID: r.ID, Name: r.Name}}
		if r.RoomType != nil {
			room.RoomType = r.RoomType.Name
		}
		if r.BedType != nil {
			room.BedType = r.BedType.Name
		}
		view.Rooms = append(view.Rooms, room)
	}
	return view
}

// Contracts returns the contracts working in at least one of the tablet's
// buildings, active or not. today decides the active flag.
func (s *Service) Contracts(ctx context.Context, tablet *models.Tablet, today time.Time) ([]ContractView, error) {
	inBuildings := s.DB.Table("work_contract_buildings").
		Select("contract_id").
		Where("building_id IN (?)", tabletBuildings(s.DB, tablet))

	contracts := make([]models.Contract, 0)
	ret := s.DB.WithContext(ctx).
		Preload("Employee").
		Preload("Company").
		Preload("ContractType").
		Preload("JobType").
		Preload("Buildings", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id IN (?)", inBuildings).
		Order("id").
		Find(&contracts)
	if ret.Error != nil {
		return nil, ret.Error
	}

	today = today.In(s.Location)
	views := make([]ContractView, 0, len(contracts))
	for i := range contracts {
		views = append(views, newContractView(&contracts[i], today))
	}
	return views, nil
}

func newContractView(c *models.Contract, today time.Time) ContractView {
	view := ContractView{
		Contract: ContractInfo{
			ID:      c.ID,
			Guid:    c.Guid,
			Start:   models.FormatDate(c.StartDate),
			Enabled: c.Enabled,
			Active:  c.Active(today),
		},
		Buildings: make([]uint, 0, len(c.Buildings)),
	}
	if c.EndDate != nil {
		end := models.FormatDate(*c.EndDate)
		view.Contract.End = &end
	}
	if c.Employee != nil {
		view.Employee = EmployeeInfo{
			ID:        c.Employee.ID,
			FirstName: c.Employee.FirstName,
			LastName:  c.Employee.LastName,
			Genre:     c.Employee.Genre,
		}
	}
	if c.Company != nil {
		view.Company = NamedRef{ID: c.Company.ID, Name: c.Company.Name}
	}
	if c.ContractType != nil {
		view.Type = ContractTypeInfo{
			ID:     c.ContractType.ID,
			Name:   c.ContractType.Name,
			Daily:  c.ContractType.DailyHours,
			Weekly: c.ContractType.WeeklyHours,
		}
	}
	if c.JobType != nil {
		view.Job = NamedRef{ID: c.JobType.ID, Name: c.JobType.Name}
	}
	for _, b := range c.Buildings {
		view.Buildings = append(view.Buildings, b.ID)
	}
	return view
}
