package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"flight_id",
			"fare_class",
			"passengers",
			"total_price",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"flight_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"fare_class": bson.M{
				"enum": []string{"economy", "business", "first"},
			},

			"passengers": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 9,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"name", "age"},
					"properties": bson.M{
						"name": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 100,
						},
						"age": bson.M{
							"bsonType": "int",
							"minimum":  1,
							"maximum":  120,
						},
					},
				},
			},

			"seats_booked": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"total_price": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"status": bson.M{
				"enum": []string{"confirmed", "cancelled"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
