package geocode

// qgisRemediation explains why the QGIS variant can never resolve
// queries over the network and what to do instead.
const qgisRemediation = "qgis geocoding is a desktop plugin, not a hosted API; " +
	"geocode in QGIS, export lat/lon columns, and re-run this tool (geocoding is skipped when both columns are present)"
