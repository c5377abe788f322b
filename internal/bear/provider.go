package bear

// Provider identifies the source dataset a Feature originated from.
//
// Ordering follows §4.5 step 7 of the conflation spec: openstreetmap <
// microsoft < usa_structures < nad < openaddresses. That order decides which
// row survives a de-duplication partition when several providers contribute
// rows with the same normalized address.
type Provider string

const (
	ProviderOpenStreetMap  Provider = "openstreetmap"
	ProviderMicrosoft      Provider = "microsoft"
	ProviderUSAStructures  Provider = "usa_structures"
	ProviderNAD            Provider = "nad"
	ProviderOpenAddresses  Provider = "openaddresses"
)

// providerRank gives the fixed tie-break order used by de-duplication.
var providerRank = map[Provider]int{
	ProviderOpenStreetMap: 0,
	ProviderMicrosoft:     1,
	ProviderUSAStructures: 2,
	ProviderNAD:           3,
	ProviderOpenAddresses: 4,
}

// Valid reports whether p is one of the five known provider tags.
func (p Provider) Valid() bool {
	_, ok := providerRank[p]
	return ok
}

// Rank returns the provider's position in the canonical tie-break order.
// Unknown providers sort last.
func (p Provider) Rank() int {
	if r, ok := providerRank[p]; ok {
		return r
	}
	return len(providerRank)
}

// Less reports whether p sorts before other in the canonical provider order.
func (p Provider) Less(other Provider) bool {
	return p.Rank() < other.Rank()
}

func (p Provider) String() string {
	return string(p)
}

// FootprintProviders lists providers in the order footprint-footprint
// conflation prefers them: OSM first when available, otherwise Microsoft
// then USA Structures (§4.3).
func FootprintProviders() []Provider {
	return []Provider{ProviderOpenStreetMap, ProviderMicrosoft, ProviderUSAStructures}
}

// AddressProviders lists the two address-point providers consumed by §4.4.
func AddressProviders() []Provider {
	return []Provider{ProviderNAD, ProviderOpenAddresses}
}

// AllProviders lists every provider tag the conform stage may produce.
func AllProviders() []Provider {
	return []Provider{
		ProviderOpenStreetMap,
		ProviderMicrosoft,
		ProviderUSAStructures,
		ProviderNAD,
		ProviderOpenAddresses,
	}
}
