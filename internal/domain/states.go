package domain

import "slices"

// State is an Indian state or union territory with a representative point.
type State struct {
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Capital string  `json:"capital"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

var indianStates = []State{
	{Name: "Andhra Pradesh", Code: "AP", Capital: "Amaravati", Lat: 15.9129, Lng: 79.74},
	{Name: "Arunachal Pradesh", Code: "AR", Capital: "Itanagar", Lat: 28.2180, Lng: 94.7278},
	{Name: "Assam", Code: "AS", Capital: "Dispur", Lat: 26.2006, Lng: 92.9376},
	{Name: "Bihar", Code: "BR", Capital: "Patna", Lat: 25.0961, Lng: 85.3131},
	{Name: "Chhattisgarh", Code: "CT", Capital: "Raipur", Lat: 21.2787, Lng: 81.8661},
	{Name: "Goa", Code: "GA", Capital: "Panaji", Lat: 15.2993, Lng: 74.1240},
	{Name: "Gujarat", Code: "GJ", Capital: "Gandhinagar", Lat: 22.2587, Lng: 71.1924},
	{Name: "Haryana", Code: "HR", Capital: "Chandigarh", Lat: 29.0588, Lng: 76.0856},
	{Name: "Himachal Pradesh", Code: "HP", Capital: "Shimla", Lat: 31.1048, Lng: 77.1734},
	{Name: "Jharkhand", Code: "JH", Capital: "Ranchi", Lat: 23.6102, Lng: 85.2799},
	{Name: "Karnataka", Code: "KA", Capital: "Bangalore", Lat: 15.3173, Lng: 75.7139},
	{Name: "Kerala", Code: "KL", Capital: "Thiruvananthapuram", Lat: 10.8505, Lng: 76.2711},
	{Name: "Madhya Pradesh", Code: "MP", Capital: "Bhopal", Lat: 22.9734, Lng: 78.6569},
	{Name: "Maharashtra", Code: "MH", Capital: "Mumbai", Lat: 19.7515, Lng: 75.7139},
	{Name: "Manipur", Code: "MN", Capital: "Imphal", Lat: 24.6637, Lng: 93.9063},
	{Name: "Meghalaya", Code: "ML", Capital: "Shillong", Lat: 25.4670, Lng: 91.3662},
	{Name: "Mizoram", Code: "MZ", Capital: "Aizawl", Lat: 23.1645, Lng: 92.9376},
	{Name: "Nagaland", Code: "NL", Capital: "Kohima", Lat: 26.1584, Lng: 94.5624},
	{Name: "Odisha", Code: "OR", Capital: "Bhubaneswar", Lat: 20.9517, Lng: 85.0985},
	{Name: "Punjab", Code: "PB", Capital: "Chandigarh", Lat: 31.1471, Lng: 75.3412},
	{Name: "Rajasthan", Code: "RJ", Capital: "Jaipur", Lat: 27.0238, Lng: 74.2179},
	{Name: "Sikkim", Code: "SK", Capital: "Gangtok", Lat: 27.5330, Lng: 88.5122},
	{Name: "Tamil Nadu", Code: "TN", Capital: "Chennai", Lat: 11.1271, Lng: 78.6569},
	{Name: "Telangana", Code: "TG", Capital: "Hyderabad", Lat: 18.1124, Lng: 79.0193},
	{Name: "Tripura", Code: "TR", Capital: "Agartala", Lat: 23.9408, Lng: 91.9882},
	{Name: "Uttar Pradesh", Code: "UP", Capital: "Lucknow", Lat: 26.8467, Lng: 80.9462},
	{Name: "Uttarakhand", Code: "UT", Capital: "Dehradun", Lat: 30.0668, Lng: 79.0193},
	{Name: "West Bengal", Code: "WB", Capital: "Kolkata", Lat: 22.9868, Lng: 87.8550},
	{Name: "Delhi", Code: "DL", Capital: "New Delhi", Lat: 28.7041, Lng: 77.1025},
	{Name: "Jammu and Kashmir", Code: "JK", Capital: "Srinagar", Lat: 33.7782, Lng: 76.5762},
	{Name: "Ladakh", Code: "LA", Capital: "Leh", Lat: 34.1526, Lng: 77.5771},
	{Name: "Puducherry", Code: "PY", Capital: "Puducherry", Lat: 11.9416, Lng: 79.8083},
	{Name: "Chandigarh", Code: "CH", Capital: "Chandigarh", Lat: 30.7333, Lng: 76.7794},
	{Name: "Dadra and Nagar Haveli and Daman and Diu", Code: "DD", Capital: "Daman", Lat: 20.1809, Lng: 73.0169},
	{Name: "Lakshadweep", Code: "LD", Capital: "Kavaratti", Lat: 10.5667, Lng: 72.6417},
	{Name: "Andaman and Nicobar Islands", Code: "AN", Capital: "Port Blair", Lat: 11.7401, Lng: 92.6586},
}

// IndianStates returns the 28 states and 8 union territories in display
// order. The slice is a copy and may be modified by the caller.
func IndianStates() []State {
	return slices.Clone(indianStates)
}
