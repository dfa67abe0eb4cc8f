package common

// All units are in metric:
// - Distance is in meters
// - Time is in seconds

// EarthMeanRadius is the IUGG mean radius of the Earth.
// orb.EarthRadius is the WGS84 equatorial radius, which overestimates
// distances by about 0.1%.
const EarthMeanRadius = 6371000.0

// DegreeLatitude is roughly the length of one degree of latitude.
const DegreeLatitude = 2 * 3.141592653589793 * EarthMeanRadius / 360
