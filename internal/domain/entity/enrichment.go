package entity

// RoadAuthorityInfo describes the national-road dataset hit at a point. The
// full block is shown when any of admin number, branch, road name or road
// type is present; status or authority alone still yields a partial display.
type RoadAuthorityInfo struct {
	AdminNumber string `json:"admin_number,omitempty"`
	Branch      string `json:"branch,omitempty"`
	RoadName    string `json:"road_name,omitempty"`
	Custodian   string `json:"custodian,omitempty"`
	RoadType    string `json:"road_type,omitempty"`
	Status      string `json:"status,omitempty"`
	Authority   string `json:"authority,omitempty"`

	// Chainage is the km/m distance marker along the road, fetched through a
	// secondary service when AdminNumber is known. Empty when that fetch
	// fails or yields nothing.
	Chainage string `json:"chainage,omitempty"`
}

// Full reports whether the record triggers the full road-authority display.
func (r RoadAuthorityInfo) Full() bool {
	return r.AdminNumber != "" || r.Branch != "" || r.RoadName != "" || r.RoadType != ""
}

// Partial reports whether the record still warrants a reduced display.
func (r RoadAuthorityInfo) Partial() bool {
	return r.Status != "" || r.Authority != ""
}

// Empty reports whether nothing at the point intersected the road dataset.
func (r RoadAuthorityInfo) Empty() bool {
	return !r.Full() && !r.Partial()
}

// Jurisdiction is the administrative district (kommune) containing a point,
// optionally decorated with a configured info link.
type Jurisdiction struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

// Building is one building-registry record with its coded attributes decoded
// into display labels. Fields the registry did not supply stay empty and the
// display degrades to "not available".
type Building struct {
	Number            string `json:"number,omitempty"`
	Use               string `json:"use,omitempty"`
	ConstructionYear  string `json:"construction_year,omitempty"`
	Floors            string `json:"floors,omitempty"`
	TotalAreaM2       string `json:"total_area_m2,omitempty"`
	ResidentialAreaM2 string `json:"residential_area_m2,omitempty"`
	FootprintAreaM2   string `json:"footprint_area_m2,omitempty"`
	RoofMaterial      string `json:"roof_material,omitempty"`
	WallMaterial      string `json:"wall_material,omitempty"`
	Heating           string `json:"heating,omitempty"`
	HeatingFuel       string `json:"heating_fuel,omitempty"`
	SupplementaryHeat string `json:"supplementary_heat,omitempty"`
	UpdatedDate       string `json:"updated_date,omitempty"`
	RevisionDate      string `json:"revision_date,omitempty"`

	// PropertyNumber is the BFE identifier discovered inside the record.
	PropertyNumber string `json:"property_number,omitempty"`

	// Point is the building's own position, or the queried point when the
	// record carries none.
	Point Coordinate `json:"point"`

	// Raw is the undecoded registry document.
	Raw map[string]any `json:"raw,omitempty"`
}

// Parcel is one property/parcel record cross-referenced by BFE number.
type Parcel struct {
	PropertyNumber    string `json:"property_number,omitempty"`
	Cadastre          string `json:"cadastre,omitempty"`
	CadastralDistrict string `json:"cadastral_district,omitempty"`
	RoadName          string `json:"road_name,omitempty"`
	MunicipalityName  string `json:"municipality_name,omitempty"`
	MunicipalityCode  string `json:"municipality_code,omitempty"`

	Raw map[string]any `json:"raw,omitempty"`
}

// EnrichmentRecord aggregates the four independent registry sub-lookups for
// a resolved domestic location. Every field is best effort: a failed lookup
// leaves its field absent without affecting the others.
type EnrichmentRecord struct {
	RoadAuthority *RoadAuthorityInfo `json:"road_authority,omitempty"`
	Jurisdiction  *Jurisdiction      `json:"jurisdiction,omitempty"`
	Buildings     []Building         `json:"buildings,omitempty"`
	Parcels       []Parcel           `json:"parcels,omitempty"`

	// PoliceDistrict is passed through from flat reverse-lookup responses
	// when present.
	PoliceDistrict string `json:"police_district,omitempty"`
}
