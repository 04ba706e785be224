package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"first_name",
			"email",
			"password",
			"role",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"first_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"last_name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType": "string",
				// Stored lowercased; the unique index makes it case-insensitive.
				"pattern": `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},

			"password": bson.M{
				"bsonType":  "string",
				"minLength": 20,
			},

			"phone": bson.M{
				"bsonType": "string",
			},

			"role": bson.M{
				"enum": []string{"traveler", "operator", "admin"},
			},

			"operator_profile": bson.M{
				"bsonType": "object",
				"required": []string{"status"},
				"properties": bson.M{
					"company_name": bson.M{
						"bsonType":  "string",
						"maxLength": 100,
					},
					"status": bson.M{
						"enum": []string{"pending", "approved", "rejected"},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
