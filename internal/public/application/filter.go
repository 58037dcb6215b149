package application

import "github.com/civictechdc/electrify-dmv/api/internal/public/domain"

// FilterContractors keeps the listings that satisfy every non-empty criterion
// of filter. Inside a criterion any match is enough; across criteria all must
// hold. Matching is exact and case-sensitive. Input order is preserved and the
// input slice is not modified.
func FilterContractors(listings []domain.Contractor, filter ContractorFilter) []domain.Contractor {
	services := toSet(filter.Services)
	certifications := toSet(filter.Certifications)

	result := make([]domain.Contractor, 0, len(listings))
	for _, c := range listings {
		if filter.State != "" && !servesState(c, filter.State) {
			continue
		}
		if len(services) > 0 && !offersAnyService(c, services) {
			continue
		}
		if len(certifications) > 0 && !holdsAnyCertification(c, certifications) {
			continue
		}
		result = append(result, c)
	}
	return result
}

func servesState(c domain.Contractor, state string) bool {
	for _, s := range c.StatesServed {
		if s.Name == state {
			return true
		}
	}
	return false
}

func offersAnyService(c domain.Contractor, wanted map[string]struct{}) bool {
	for _, s := range c.Services {
		if _, ok := wanted[s.Name]; ok {
			return true
		}
	}
	return false
}

func holdsAnyCertification(c domain.Contractor, wanted map[string]struct{}) bool {
	for _, cert := range c.Certifications {
		if _, ok := wanted[cert.ShortName]; ok {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}
