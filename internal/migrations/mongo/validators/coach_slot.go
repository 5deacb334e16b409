package validators

import "go.mongodb.org/mongo-driver/bson"

var CoachSlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"coach_id",
			"coach_name",
			"arena_id",
			"start_time",
			"end_time",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"coach_id": bson.M{
				"bsonType": "string",
			},

			"coach_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"arena_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"ingested_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
