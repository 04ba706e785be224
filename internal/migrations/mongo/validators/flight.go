package validators

import "go.mongodb.org/mongo-driver/bson"

var legSchema = bson.M{
	"bsonType": "object",
	"required": []string{"city", "date", "time"},
	"properties": bson.M{
		"city": bson.M{
			"bsonType":  "string",
			"minLength": 2,
			"maxLength": 100,
		},
		"date": bson.M{
			"bsonType": "date",
		},
		"time": bson.M{
			"bsonType": "string",
		},
	},
}

var FlightValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"flight_number",
			"airline",
			"departure",
			"arrival",
			"price",
			"seats",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"flight_number": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 10,
			},

			"airline": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"departure": legSchema,
			"arrival":   legSchema,

			"price": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "double",
					"minimum":  0,
				},
			},

			"seats": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "object",
					"required": []string{"total", "available"},
					"properties": bson.M{
						"total": bson.M{
							"bsonType": "int",
							"minimum":  1,
							"maximum":  1000,
						},
						"available": bson.M{
							"bsonType": "int",
							"minimum":  0,
						},
					},
				},
			},

			"created_by": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
