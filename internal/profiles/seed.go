package profiles

import "github.com/example/ride-hub/internal/models"

// NewSeedDirectory returns the built-in demo directory used when no
// profile file is configured.
func NewSeedDirectory() *Directory {
	return NewDirectory(seedDrivers, seedUsers)
}

var seedDrivers = []models.DriverRecord{
	{
		ID:     "d-10234",
		Name:   "Rajesh Kumar",
		Phone:  "+91 9876543210",
		Rating: 4.8,
		Vehicle: models.Vehicle{
			Model:  "Maruti Suzuki Swift",
			Number: "KA 01 AB 1234",
			Color:  "White",
			Type:   "Hatchback",
		},
		CurrentLocation:   models.LatLng{Lat: 12.9716, Lng: 77.5946},
		CompletedRides:    1247,
		TotalEarnings:     245800,
		AvailableForRides: true,
		DailyStats: models.DailyStats{
			Earnings:       1250,
			CompletedRides: 8,
			DeclinedRides:  2,
			AcceptanceRate: 80,
			OnlineHours:    7.5,
		},
	},
	{
		ID:     "d-10235",
		Name:   "Priya Singh",
		Phone:  "+91 9876543211",
		Rating: 4.9,
		Vehicle: models.Vehicle{
			Model:  "Honda City",
			Number: "KA 05 MJ 5678",
			Color:  "Silver",
			Type:   "Sedan",
		},
		CurrentLocation:   models.LatLng{Lat: 12.9782, Lng: 77.6408},
		CompletedRides:    2135,
		TotalEarnings:     392600,
		AvailableForRides: true,
		DailyStats: models.DailyStats{
			Earnings:       890,
			CompletedRides: 6,
			DeclinedRides:  1,
			AcceptanceRate: 86,
			OnlineHours:    5.2,
		},
	},
}

var seedUsers = []models.UserRecord{
	{
		ID:     "u-20456",
		Name:   "Amit Patel",
		Phone:  "+91 9898989898",
		Rating: 4.7,
		CurrentLocation: models.Place{
			Lat: 12.9716, Lng: 77.5946, Address: "Cubbon Park, Bengaluru",
		},
		RideRequest: models.RideRequest{
			PickupLocation: models.Place{
				Lat: 12.9716, Lng: 77.5946, Address: "Cubbon Park, Bengaluru",
			},
			DropLocation: models.Place{
				Lat: 12.9780, Lng: 77.7575, Address: "Whitefield Tech Park, Bengaluru",
			},
			ScheduledTime:     "18:30",
			EstimatedFare:     350,
			EstimatedDistance: 12.4,
			EstimatedTime:     45,
			VehicleType:       "any",
			PaymentMethod:     "card",
		},
	},
	{
		ID:     "u-20457",
		Name:   "Meera Sharma",
		Phone:  "+91 9898989899",
		Rating: 4.9,
		CurrentLocation: models.Place{
			Lat: 12.9782, Lng: 77.6408, Address: "Indiranagar, Bengaluru",
		},
		RideRequest: models.RideRequest{
			PickupLocation: models.Place{
				Lat: 12.9782, Lng: 77.6408, Address: "Indiranagar, Bengaluru",
			},
			DropLocation: models.Place{
				Lat: 12.9150, Lng: 77.6500, Address: "Koramangala Tech Hub, Bengaluru",
			},
			ScheduledTime:     "19:15",
			EstimatedFare:     180,
			EstimatedDistance: 7.8,
			EstimatedTime:     30,
			VehicleType:       "Sedan",
			PaymentMethod:     "upi",
		},
	},
}
