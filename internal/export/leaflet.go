package export

import (
	"html/template"

	"github.com/sells-group/zoneplan/internal/zoning"
)

var leafletTemplate = template.Must(template.New("leaflet").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var data = {{.Payload}};
var map = L.map('map').setView(data.center, 11);
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

data.zones.forEach(function (z) {
  if (z.ring && z.ring.length > 2) {
    L.polygon(z.ring, {color: z.color, weight: 2, fillOpacity: 0.08})
      .bindTooltip('Zone ' + z.zone).addTo(map);
  }
});

data.markers.forEach(function (m) {
  L.circleMarker(m.pos, {radius: 6, color: m.color, fillColor: m.color, fillOpacity: 0.85})
    .bindPopup('<b>' + m.name + '</b><br>Zone ' + m.zone).addTo(map);
});

data.centroids.forEach(function (c) {
  L.marker(c.pos).bindPopup('Zone ' + c.zone + ' centroid').addTo(map);
});
</script>
</body>
</html>
`))

// WriteLeafletMap writes a self-contained Leaflet page plotting member
// markers, zone centroids, and boundary polygons.
func WriteLeafletMap(path string, part *zoning.Partition, bounds []zoning.Boundary, title string) error {
	if title == "" {
		title = "Zone map"
	}
	return renderMap(path, leafletTemplate, part, bounds, map[string]any{"Title": title})
}
