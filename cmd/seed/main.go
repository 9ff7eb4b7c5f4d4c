package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"emtsim/internal/exam"
	"emtsim/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "emtsim"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)
	scenarioColl := db.Collection("scenarios")
	examColl := db.Collection("exam_questions")

	// Wipe and reseed; scenario IDs are stable slugs so plain inserts
	// would collide on a second run
	if _, err := scenarioColl.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("Failed to clear scenarios: %v", err)
	}
	if _, err := examColl.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("Failed to clear exam questions: %v", err)
	}

	now := time.Now()
	scenarios := catalogue(now)

	docs := make([]interface{}, 0, len(scenarios))
	for _, s := range scenarios {
		docs = append(docs, s)
	}
	if _, err := scenarioColl.InsertMany(ctx, docs); err != nil {
		log.Fatalf("Failed to insert scenarios: %v", err)
	}

	questions := exam.DefaultBank()
	qdocs := make([]interface{}, 0, len(questions))
	for _, q := range questions {
		qdocs = append(qdocs, q)
	}
	if _, err := examColl.InsertMany(ctx, qdocs); err != nil {
		log.Fatalf("Failed to insert exam questions: %v", err)
	}

	fmt.Printf("Seeded %d scenarios and %d exam questions into %s\n", len(scenarios), len(questions), dbName)
}

func catalogue(now time.Time) []model.Scenario {
	return []model.Scenario{
		{
			ID:           "chest-pain-001",
			Title:        "Crushing Chest Pain",
			Category:     model.CategoryCardiac,
			Difficulty:   model.DifficultyIntermediate,
			Presentation: "You arrive to find a 58 year old man slumped in an armchair, pale and clutching his chest. He says the pain started about forty minutes ago and radiates into his left arm.",
			Patient: model.PatientProfile{
				Age:            58,
				Gender:         "male",
				MedicalHistory: []string{"hypertension", "high cholesterol"},
				Medications:    []string{"lisinopril", "atorvastatin"},
				Allergies:      []string{"aspirin"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:           "palpitations-001",
			Title:        "Dizzy Spells",
			Category:     model.CategoryCardiac,
			Difficulty:   model.DifficultyNovice,
			Presentation: "A 71 year old woman meets you at the door, holding the frame. She says her heart has been racing on and off all morning and she nearly fainted twice.",
			Patient: model.PatientProfile{
				Age:            71,
				Gender:         "female",
				MedicalHistory: []string{"atrial fibrillation"},
				Medications:    []string{"warfarin"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:           "asthma-001",
			Title:        "Asthma Attack",
			Category:     model.CategoryRespiratory,
			Difficulty:   model.DifficultyNovice,
			Presentation: "A 24 year old woman sits bolt upright at the kitchen table, wheezing audibly and answering in two word phrases. Her inhaler is empty on the table in front of her.",
			Patient: model.PatientProfile{
				Age:            24,
				Gender:         "female",
				MedicalHistory: []string{"asthma"},
				Medications:    []string{"albuterol inhaler"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:           "anaphylaxis-001",
			Title:        "Anaphylaxis at a Picnic",
			Category:     model.CategoryRespiratory,
			Difficulty:   model.DifficultyAdvanced,
			Presentation: "At a park picnic a 31 year old man was stung by a bee minutes ago. His lips and eyelids are swelling, hives are spreading up his arms, and his voice is getting hoarse.",
			Patient: model.PatientProfile{
				Age:       31,
				Gender:    "male",
				Allergies: []string{"bee stings", "penicillin"},
			},
			CriticalOverride: []string{"epinephrine", "oxygen"},
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:           "fall-001",
			Title:        "Fall from a Ladder",
			Category:     model.CategoryTrauma,
			Difficulty:   model.DifficultyNovice,
			Presentation: "A 45 year old man lies at the foot of an extension ladder, cradling an obviously deformed right forearm. A neighbor says he fell about three meters cleaning gutters.",
			Patient: model.PatientProfile{
				Age:    45,
				Gender: "male",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:           "mvc-001",
			Title:        "Motorcycle Down",
			Category:     model.CategoryTrauma,
			Difficulty:   model.DifficultyAdvanced,
			Presentation: "A 29 year old rider is on the shoulder after laying his motorcycle down at speed. His left leg is angulated below the knee and road rash covers his left side. He kept his helmet on.",
			Patient: model.PatientProfile{
				Age:    29,
				Gender: "male",
			},
			BaselineVitals: &model.VitalsSnapshot{
				HeartRate:       118,
				RespiratoryRate: 24,
				SystolicBP:      104,
				DiastolicBP:     78,
				SpO2:            95,
				Temperature:     98.0,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:           "stroke-001",
			Title:        "Sudden Weakness",
			Category:     model.CategoryNeurologic,
			Difficulty:   model.DifficultyIntermediate,
			Presentation: "A 67 year old woman sits on her sofa with a visible right facial droop. Her husband says she was fine twenty minutes ago, then her speech went slurred and her right hand dropped the phone.",
			Patient: model.PatientProfile{
				Age:            67,
				Gender:         "female",
				MedicalHistory: []string{"hypertension", "transient ischemic attack"},
				Medications:    []string{"clopidogrel"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:           "hypoglycemia-001",
			Title:        "Found Confused",
			Category:     model.CategoryMetabolic,
			Difficulty:   model.DifficultyNovice,
			Presentation: "A 54 year old man is found pacing his living room, sweaty and confused, unable to answer simple questions. His wife says he took his insulin this morning but skipped breakfast.",
			Patient: model.PatientProfile{
				Age:            54,
				Gender:         "male",
				MedicalHistory: []string{"type 1 diabetes"},
				Medications:    []string{"insulin"},
			},
			Consciousness: model.ConsciousnessAltered,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:           "general-001",
			Title:        "Feeling Unwell",
			Category:     model.CategoryGeneral,
			Difficulty:   model.DifficultyNovice,
			Presentation: "An 82 year old woman answers the door in her dressing gown and says she has felt weak and off her food since yesterday evening. She cannot point to anything specific.",
			Patient: model.PatientProfile{
				Age:            82,
				Gender:         "female",
				MedicalHistory: []string{"chronic kidney disease"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
