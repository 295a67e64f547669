package content

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"wordquest/internal/models"
)

// SeedBank is one YAML file of default content
type SeedBank struct {
	Topics []SeedTopic `yaml:"topics"`
}

// SeedTopic is a topic and its question entries
type SeedTopic struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Questions   []SeedEntry `yaml:"questions"`
}

// SeedEntry is one question row
type SeedEntry struct {
	Word       string `yaml:"word"`
	Difficulty string `yaml:"difficulty"`
	Image      string `yaml:"image"`
	Audio      string `yaml:"audio"`
}

// TopicStore is the slice of the topic repository the seeder needs
type TopicStore interface {
	GetByName(name string) (*models.Topic, error)
	Create(name, description string) (*models.Topic, error)
}

// QuestionStore is the slice of the question repository the seeder needs
type QuestionStore interface {
	Create(q models.Question) (int64, error)
	ExistsInTopic(topicID int64, word string, difficulty models.Difficulty) (bool, error)
}

// Speech generates an audio prompt for a word. Optional.
type Speech interface {
	GenerateAudioFile(word string) (string, error)
}

// Seeder loads default question banks into the catalog
type Seeder struct {
	topics    TopicStore
	questions QuestionStore
	speech    Speech
	audioBase string
}

// NewSeeder creates a seeder. speech may be nil to skip TTS
// generation; audioBase prefixes generated filenames into media refs.
func NewSeeder(topics TopicStore, questions QuestionStore, speech Speech, audioBase string) *Seeder {
	return &Seeder{
		topics:    topics,
		questions: questions,
		speech:    speech,
		audioBase: audioBase,
	}
}

// SeedFromDir loads every *.yaml bank in the directory. Seeding is
// idempotent: existing topics and words are left alone.
func (s *Seeder) SeedFromDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to list seed files: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		bank, err := LoadBank(file)
		if err != nil {
			return err
		}
		if err := s.seedBank(bank); err != nil {
			return fmt.Errorf("seed %s: %w", filepath.Base(file), err)
		}
	}
	return nil
}

// LoadBank parses one YAML seed file
func LoadBank(path string) (*SeedBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var bank SeedBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &bank, nil
}

func (s *Seeder) seedBank(bank *SeedBank) error {
	for _, seedTopic := range bank.Topics {
		topic, err := s.topics.GetByName(seedTopic.Name)
		if err != nil {
			return err
		}
		if topic == nil {
			topic, err = s.topics.Create(seedTopic.Name, seedTopic.Description)
			if err != nil {
				return err
			}
			log.Printf("Seeded topic: %s", seedTopic.Name)
		}

		for _, entry := range seedTopic.Questions {
			difficulty, err := models.ParseDifficulty(entry.Difficulty)
			if err != nil {
				return fmt.Errorf("topic %s, word %q: %w", seedTopic.Name, entry.Word, err)
			}

			exists, err := s.questions.ExistsInTopic(topic.ID, entry.Word, difficulty)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			audio := entry.Audio
			if audio == "" && s.speech != nil {
				filename, err := s.speech.GenerateAudioFile(entry.Word)
				if err != nil {
					// Missing audio degrades the spelling bee, it
					// doesn't block seeding.
					log.Printf("Warning: TTS for %q failed: %v", entry.Word, err)
				} else {
					audio = s.audioBase + "/" + filename
				}
			}

			_, err = s.questions.Create(models.Question{
				TopicID:    topic.ID,
				Word:       entry.Word,
				Difficulty: difficulty,
				ImageSrc:   models.MediaRef(entry.Image),
				AudioSrc:   models.MediaRef(audio),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
