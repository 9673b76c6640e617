package gazetteer

var builtin = []Entry{
	{ID: "BUD", Code: "BUD", Name: "Budapest Ferenc Liszt International Airport", City: "Budapest", Country: "Hungary", Lat: 47.4369, Lon: 19.2556},
	{ID: "HAN", Code: "HAN", Name: "Noi Bai International Airport", City: "Hanoi", Country: "Vietnam", Lat: 21.2212, Lon: 105.8072},
	{ID: "AMS", Code: "AMS", Name: "Amsterdam Airport Schiphol", City: "Amsterdam", Country: "Netherlands", Lat: 52.3105, Lon: 4.7683},
	{ID: "CDG", Code: "CDG", Name: "Charles de Gaulle Airport", City: "Paris", Country: "France", Lat: 49.0097, Lon: 2.5479},
	{ID: "LHR", Code: "LHR", Name: "Heathrow Airport", City: "London", Country: "United Kingdom", Lat: 51.4700, Lon: -0.4543},
	{ID: "VIE", Code: "VIE", Name: "Vienna International Airport", City: "Vienna", Country: "Austria", Lat: 48.1103, Lon: 16.5697},
	{ID: "PRG", Code: "PRG", Name: "Václav Havel Airport Prague", City: "Prague", Country: "Czech Republic", Lat: 50.1008, Lon: 14.2600},
	{ID: "FCO", Code: "FCO", Name: "Leonardo da Vinci Airport", City: "Rome", Country: "Italy", Lat: 41.8003, Lon: 12.2389},
	{ID: "MAD", Code: "MAD", Name: "Adolfo Suárez Madrid-Barajas Airport", City: "Madrid", Country: "Spain", Lat: 40.4983, Lon: -3.5676},
	{ID: "BER", Code: "BER", Name: "Berlin Brandenburg Airport", City: "Berlin", Country: "Germany", Lat: 52.3667, Lon: 13.5033},

	// Singapore landmarks.
	{ID: "sg-gardens-by-the-bay", Name: "Gardens by the Bay", Address: "18 Marina Gardens Dr, Singapore 018953", Lat: 1.2815683, Lon: 103.8636132, Keywords: []string{"garden", "bay", "singapore"}},
	{ID: "sg-marina-bay-sands", Name: "Marina Bay Sands", Address: "10 Bayfront Ave, Singapore 018956", Lat: 1.2836, Lon: 103.8593, Keywords: []string{"marina", "sands", "bay", "singapore"}},
	{ID: "sg-merlion-park", Name: "Merlion Park", Address: "Fullerton Rd, Singapore 049213", Lat: 1.2868, Lon: 103.8545, Keywords: []string{"merlion", "singapore"}},
}
