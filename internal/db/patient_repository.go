package db

import (
	"errors"

	"github.com/terraincognita07/carewatch/internal/models"
	"gorm.io/gorm"
)

type PatientRepository struct {
	database *gorm.DB
}

func NewPatientRepository(database *gorm.DB) *PatientRepository {
	return &PatientRepository{database: database}
}

func (repo *PatientRepository) FindByPatientID(patientID string) (models.Patient, bool, error) {
	var patient models.Patient
	err := repo.database.Where("patient_id = ?", patientID).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Patient{}, false, nil
	}
	if err != nil {
		return models.Patient{}, false, err
	}
	return patient, true, nil
}

func (repo *PatientRepository) Create(patient *models.Patient) error {
	return repo.database.Create(patient).Error
}

func (repo *PatientRepository) List() ([]models.Patient, error) {
	patients := make([]models.Patient, 0)
	if err := repo.database.Order("patient_id ASC").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

type CaregiverRepository struct {
	database *gorm.DB
}

func NewCaregiverRepository(database *gorm.DB) *CaregiverRepository {
	return &CaregiverRepository{database: database}
}

func (repo *CaregiverRepository) FindByCaregiverID(caregiverID string) (models.Caregiver, bool, error) {
	var caregiver models.Caregiver
	err := repo.database.Preload("Patients").Where("caregiver_id = ?", caregiverID).First(&caregiver).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Caregiver{}, false, nil
	}
	if err != nil {
		return models.Caregiver{}, false, err
	}
	return caregiver, true, nil
}

// CreateWithPatients stores the caregiver and its patient links atomically.
// Linked patient ids need not exist yet.
func (repo *CaregiverRepository) CreateWithPatients(caregiver *models.Caregiver, patientIDs []string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		caregiver.Patients = nil
		if err := tx.Create(caregiver).Error; err != nil {
			return err
		}
		links := make([]models.CaregiverPatient, 0, len(patientIDs))
		for _, patientID := range patientIDs {
			links = append(links, models.CaregiverPatient{CaregiverID: caregiver.CaregiverID, PatientID: patientID})
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		caregiver.Patients = links
		return nil
	})
}
