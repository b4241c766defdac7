// Package geo validates claimed location evidence against a room's
// allowed WiFi networks and geofence.
package geo

import (
	"fmt"
	"math"

	"facegate/internal/model"
)

const earthRadiusM = 6371000.0

// DefaultRadiusM applies when a room defines a GPS center but no radius.
const DefaultRadiusM = 50.0

// Haversine returns the great-circle distance in meters between two
// latitude/longitude points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Evidence is the location claim accompanying a check-in. Either field may
// be absent.
type Evidence struct {
	WifiSSID *string
	GPSLat   *float64
	GPSLng   *float64
}

// Validator checks evidence against room constraints. RequireEvidence
// controls the policy for evidence-free check-ins: when false (the
// default) a claim with no evidence passes vacuously; when true it is
// rejected if the room defines any constraint.
type Validator struct {
	RequireEvidence bool
	DefaultRadiusM  float64
}

// Result reports the outcome with a human-readable reason on failure.
type Result struct {
	OK     bool
	Reason string
}

// Validate applies the room's WiFi allow-list and geofence to the claim.
func (v Validator) Validate(room model.Room, ev Evidence) Result {
	hasWifi := ev.WifiSSID != nil && *ev.WifiSSID != ""
	hasGPS := ev.GPSLat != nil && ev.GPSLng != nil
	constrained := len(room.AllowedSSIDs) > 0 || (room.GPSLat != nil && room.GPSLng != nil)

	if !hasWifi && !hasGPS {
		if v.RequireEvidence && constrained {
			return Result{Reason: "no location evidence supplied"}
		}
		return Result{OK: true}
	}

	if hasWifi && len(room.AllowedSSIDs) > 0 {
		allowed := false
		for _, ssid := range room.AllowedSSIDs {
			if ssid == *ev.WifiSSID {
				allowed = true
				break
			}
		}
		if !allowed {
			return Result{Reason: "wifi not allowed"}
		}
	}

	if hasGPS && room.GPSLat != nil && room.GPSLng != nil {
		radius := room.RadiusM
		if radius <= 0 {
			radius = v.DefaultRadiusM
		}
		if radius <= 0 {
			radius = DefaultRadiusM
		}
		dist := Haversine(*room.GPSLat, *room.GPSLng, *ev.GPSLat, *ev.GPSLng)
		if dist > radius {
			return Result{Reason: fmt.Sprintf("too far from room (%.0fm > %.0fm)", dist, radius)}
		}
	}

	return Result{OK: true}
}
