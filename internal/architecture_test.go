package internal

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	domain := archunit.Packages("domain", []string{".../internal/domain/..."})
	ports := archunit.Packages("ports", []string{".../internal/ports"})
	adapters := archunit.Packages("adapters", []string{".../internal/adapters/..."})

	if err := domain.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("domain depends on adapters: %v", err)
	}
	if err := ports.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("ports depend on adapters: %v", err)
	}
}

func TestDomainPackages(t *testing.T) {
	for _, pkg := range []string{"translator", "registry", "entity", "recency", "hue"} {
		layer := archunit.Packages(pkg, []string{".../internal/domain/" + pkg})
		if len(layer.Packages()) == 0 {
			t.Errorf("no %s package found in domain", pkg)
		}
	}
}
