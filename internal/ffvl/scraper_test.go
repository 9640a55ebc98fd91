package ffvl

import (
	"errors"
	"fmt"
	"testing"
)

// flightPage renders a minimal FFVL results page for tests. It carries the
// same anchor and info-list structure the scraper relies on.
func flightPage(root string, id int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<section id="block-system-main">
  <h1>Le vol de JACQUES FOURNIER du 28/04/2022</h1>
  <a href="%[1]s/cfd/liste/vol/%[2]d">vol %[2]d</a>
  <a href="%[1]s/pilote/12345">JACQUES FOURNIER</a>
  <a href="%[1]s/cfd/liste/saison/2022">28/04/2022</a>
  <a href="%[1]s/cfd/liste/aile/678">OZONE Zeno (EN D)</a>
  <a href="/sites/default/files/2022-04/%[2]d.igc">trace IGC</a>
  <ul>
    <li>type de vol : distance libre</li>
    <li>décollage : Planfait</li>
    <li>atterrissage : Doussard</li>
    <li>distance totale : 42.5 km</li>
    <li>durée (du parcours) : 3h05mn</li>
    <li>points : 51.3 pts</li>
  </ul>
</section>
</body></html>`, root, id)
}

// emptyFlightPage is a page for an unassigned id: no pilot anchor.
const emptyFlightPage = `<!DOCTYPE html>
<html><body><section id="block-system-main"><p>aucun vol</p></section></body></html>`

func TestParseFlightPage(t *testing.T) {
	const root = "https://parapente.ffvl.fr"

	fl, err := ParseFlightPage([]byte(flightPage(root, 20321973)), root, 20321973)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fl.FlightID != "ffvl/20321973" {
		t.Errorf("FlightID = %q, want ffvl/20321973", fl.FlightID)
	}
	if fl.Pilot != "JACQUES FOURNIER" {
		t.Errorf("Pilot = %q", fl.Pilot)
	}
	if fl.Date != "28/04/2022" {
		t.Errorf("Date = %q", fl.Date)
	}
	if fl.WingName != "OZONE Zeno" {
		t.Errorf("WingName = %q, want parenthesized suffix stripped", fl.WingName)
	}
	if fl.IGC != "/sites/default/files/2022-04/20321973.igc" {
		t.Errorf("IGC = %q", fl.IGC)
	}
	if fl.FAIType != "distance libre" {
		t.Errorf("FAIType = %q", fl.FAIType)
	}
	if fl.Takeoff != "Planfait" || fl.Landing != "Doussard" {
		t.Errorf("Takeoff/Landing = %q/%q", fl.Takeoff, fl.Landing)
	}
	if fl.Distance != 42.5 {
		t.Errorf("Distance = %v, want 42.5", fl.Distance)
	}
	if fl.Duration != 185 {
		t.Errorf("Duration = %v min, want 185 (3h05mn)", fl.Duration)
	}
	if fl.Points != 51.3 {
		t.Errorf("Points = %v, want 51.3", fl.Points)
	}
}

func TestParseFlightPageNoFlight(t *testing.T) {
	_, err := ParseFlightPage([]byte(emptyFlightPage), DefaultRootURL, 20000001)
	if !errors.Is(err, ErrNoFlight) {
		t.Fatalf("err = %v, want ErrNoFlight", err)
	}
}

func TestParseFlightPageCanonicalID(t *testing.T) {
	// The page self-links with the canonical id; the requested id loses.
	const root = "https://parapente.ffvl.fr"

	fl, err := ParseFlightPage([]byte(flightPage(root, 20321973)), root, 99999999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl.FlightID != "ffvl/20321973" {
		t.Errorf("FlightID = %q, want canonical id from the page", fl.FlightID)
	}
}

func TestParseFlightPageVolLinkWithSuffix(t *testing.T) {
	// Some pages link the flight with a trailing path segment; the id is
	// still the digit run right after the vol prefix.
	const root = "https://parapente.ffvl.fr"
	page := `<html><body>
<a href="` + root + `/pilote/1">PILOT</a>
<a href="` + root + `/cfd/liste/vol/20321973/preuves">preuves</a>
</body></html>`

	fl, err := ParseFlightPage([]byte(page), root, 99999999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl.FlightID != "ffvl/20321973" {
		t.Errorf("FlightID = %q, want ffvl/20321973", fl.FlightID)
	}
}

func TestParseFlightPageMissingInfoList(t *testing.T) {
	const root = "https://parapente.ffvl.fr"
	page := `<html><body><a href="` + root + `/pilote/1">PILOT</a></body></html>`

	fl, err := ParseFlightPage([]byte(page), root, 20000001)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl.Pilot != "PILOT" {
		t.Errorf("Pilot = %q", fl.Pilot)
	}
	if fl.Distance != 0 || fl.Duration != 0 || fl.Points != 0 {
		t.Errorf("numeric fields not zero for page without info list: %+v", fl)
	}
}
