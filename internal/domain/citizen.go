package domain

// CitizenReportPoints are public bear reports from the Kysuce region,
// collected out-of-band and shipped with the service. The list is immutable;
// a single visibility toggle controls the whole layer.
var CitizenReportPoints = []CitizenReportPoint{
	{Latitude: 49.344227, Longitude: 18.500609},
	{Latitude: 49.354962, Longitude: 18.526015},
	{Latitude: 49.442121, Longitude: 18.668266},
	{Latitude: 49.38427, Longitude: 18.637086},
	{Latitude: 49.403569, Longitude: 18.703175},
	{Latitude: 49.402229, Longitude: 18.716907},
	{Latitude: 49.397313, Longitude: 18.742313},
	{Latitude: 49.486607, Longitude: 18.782825},
	{Latitude: 49.495527, Longitude: 18.898869},
	{Latitude: 49.387928, Longitude: 18.833637},
	{Latitude: 49.345896, Longitude: 18.780079},
	{Latitude: 49.339998, Longitude: 18.856655},
	{Latitude: 49.331345, Longitude: 18.874555},
	{Latitude: 49.327205, Longitude: 18.832405},
	{Latitude: 49.361438, Longitude: 18.910931},
	{Latitude: 49.289183, Longitude: 18.757343},
	{Latitude: 49.276754, Longitude: 18.745795},
	{Latitude: 49.279014, Longitude: 18.783903},
	{Latitude: 49.264321, Longitude: 18.772355},
	{Latitude: 49.256408, Longitude: 18.744063},
	{Latitude: 49.236431, Longitude: 18.756188},
}
