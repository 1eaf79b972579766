package export

import (
	"html/template"

	"github.com/sells-group/zoneplan/internal/zoning"
)

var googleMapTemplate = template.Must(template.New("gmap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var data = {{.Payload}};

function initMap() {
  var map = new google.maps.Map(document.getElementById('map'), {
    center: {lat: data.center[0], lng: data.center[1]},
    zoom: 11
  });

  data.zones.forEach(function (z) {
    if (z.ring && z.ring.length > 2) {
      new google.maps.Polygon({
        paths: z.ring.map(function (p) { return {lat: p[0], lng: p[1]}; }),
        strokeColor: z.color, strokeWeight: 2,
        fillColor: z.color, fillOpacity: 0.08,
        map: map
      });
    }
  });

  data.markers.forEach(function (m) {
    var marker = new google.maps.Marker({
      position: {lat: m.pos[0], lng: m.pos[1]},
      title: m.name + ' (Zone ' + m.zone + ')',
      icon: {
        path: google.maps.SymbolPath.CIRCLE,
        scale: 6, fillColor: m.color, fillOpacity: 0.85,
        strokeColor: m.color, strokeWeight: 1
      },
      map: map
    });
  });

  data.centroids.forEach(function (c) {
    new google.maps.Marker({
      position: {lat: c.pos[0], lng: c.pos[1]},
      label: String(c.zone),
      map: map
    });
  });
}
</script>
<script async src="https://maps.googleapis.com/maps/api/js?key={{.Key}}&callback=initMap"></script>
</body>
</html>
`))

// WriteGoogleMap writes a Google Maps JS page with the same layers as
// the Leaflet map. The page loads the Maps API with the provided key.
func WriteGoogleMap(path string, part *zoning.Partition, bounds []zoning.Boundary, title, key string) error {
	if title == "" {
		title = "Zone map"
	}
	return renderMap(path, googleMapTemplate, part, bounds, map[string]any{
		"Title": title,
		"Key":   key,
	})
}
